package web

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// Tokens issues and checks form tokens signed with a secret key.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token signer. An empty secret is replaced by a random one,
// which invalidates issued tokens on restart.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	return &Tokens{secret: key, ttl: ttl, now: time.Now}
}

// Issue returns a token carrying the current time.
func (t *Tokens) Issue() string {
	stamp := strconv.FormatInt(t.now().Unix(), 10)
	return stamp + "." + t.sign(stamp)
}

// Verify reports whether token was issued by t and has not expired.
func (t *Tokens) Verify(token string) bool {
	stamp, signature, ok := strings.Cut(token, ".")
	if !ok {
		return false
	}

	if !hmac.Equal([]byte(signature), []byte(t.sign(stamp))) {
		return false
	}

	issued, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return false
	}

	age := t.now().Sub(time.Unix(issued, 0))
	return age >= 0 && age <= t.ttl
}

func (t *Tokens) sign(stamp string) string {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(stamp))
	return hex.EncodeToString(mac.Sum(nil))
}
