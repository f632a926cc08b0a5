// Package cache provides localized filesystem-based caching for search results.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mashup-cli/mashup/filesystem"
	"github.com/mashup-cli/mashup/where"
	"github.com/spf13/afero"
)

const TTL = 7 * 24 * time.Hour

// dir is resolved lazily so tests can point the config path elsewhere.
var dir = where.Searches

// GenerateKey generates a deterministic SHA-256 hash from a query and a result limit for use as a cache identifier.
func GenerateKey(query string, limit int) string {
	sanitized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	hash := sha256.Sum256([]byte(sanitized + "#" + strconv.Itoa(limit)))
	return hex.EncodeToString(hash[:])
}

// Read attempts to retrieve and deserialize a cached object if it exists and has not exceeded its TTL.
func Read(key string, target any) bool {
	path := filepath.Join(dir(), key)
	api := filesystem.API()

	info, err := api.Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	f, err := api.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(target) == nil
}

// Write persists a serializable object to the cache using an atomic file swap.
// Every call writes its own temporary file, so concurrent writers never share one.
func Write(key string, data any) error {
	path := filepath.Join(dir(), key)
	api := filesystem.API()

	f, err := afero.TempFile(api, dir(), key+"-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := f.Name()

	if err := json.NewEncoder(f).Encode(data); err != nil {
		_ = f.Close()
		_ = api.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = api.Remove(tmpPath)
		return err
	}

	if err := api.Rename(tmpPath, path); err != nil {
		_ = api.Remove(tmpPath)
		return err
	}
	return nil
}

// Prune removes expired entries and returns how many were deleted.
func Prune() int {
	api := filesystem.API()
	var removed int

	_ = api.Walk(dir(), func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > TTL && api.Remove(path) == nil {
			removed++
		}
		return nil
	})

	return removed
}

// CollectGarbage prunes expired entries in the background.
func CollectGarbage() {
	go Prune()
}

