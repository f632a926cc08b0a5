// Package request turns raw user input into a validated mashup request.
package request

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/mashup-cli/mashup/util"
)

const (
	// MinVideos is the exclusive lower bound for the number of videos.
	MinVideos = 10
	// MinSeconds is the exclusive lower bound for the clip duration.
	MinSeconds = 20
)

// Field names used in validation errors.
const (
	FieldSinger  = "singer"
	FieldVideos  = "videos"
	FieldSeconds = "seconds"
	FieldOutput  = "output"
	FieldEmail   = "email"
)

const outputExt = ".mp3"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Raw holds the fields exactly as they were entered.
type Raw struct {
	Singer  string
	Videos  string
	Seconds string
	Output  string
	Email   string
}

// Request is a validated mashup request. It is never modified after Validate returns it.
type Request struct {
	Singer  string `json:"singer"`
	Videos  int    `json:"videos"`
	Seconds int    `json:"seconds"`
	Output  string `json:"output,omitempty"`
	Email   string `json:"email,omitempty"`
}

type options struct {
	email  bool
	output bool
}

// Option selects the destination fields that Validate requires.
type Option func(*options)

// WithEmail requires a well-formed email address.
func WithEmail() Option {
	return func(o *options) { o.email = true }
}

// WithOutput requires an output file path.
func WithOutput() Option {
	return func(o *options) { o.output = true }
}

// Validate checks raw against the request rules and reports every offending field at once.
// It performs no I/O.
func Validate(raw Raw, opts ...Option) (*Request, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var errs ValidationErrors
	fail := func(field, message string) {
		errs = append(errs, &ValidationError{Field: field, Message: message})
	}

	req := &Request{Singer: strings.TrimSpace(raw.Singer)}

	if req.Singer == "" {
		fail(FieldSinger, "singer name cannot be empty")
	}

	if videos, ok := parseInt(raw.Videos); !ok {
		fail(FieldVideos, "number of videos must be an integer")
	} else if videos <= MinVideos {
		fail(FieldVideos, "number of videos must be greater than "+strconv.Itoa(MinVideos))
	} else {
		req.Videos = videos
	}

	if seconds, ok := parseInt(raw.Seconds); !ok {
		fail(FieldSeconds, "audio duration must be an integer")
	} else if seconds <= MinSeconds {
		fail(FieldSeconds, "audio duration must be greater than "+strconv.Itoa(MinSeconds)+" seconds")
	} else {
		req.Seconds = seconds
	}

	if o.output {
		output := strings.TrimSpace(raw.Output)
		if output == "" {
			fail(FieldOutput, "output file name cannot be empty")
		} else {
			req.Output = NormalizeOutput(output)
		}
	}

	if o.email {
		if !IsValidEmail(raw.Email) {
			fail(FieldEmail, "please provide a valid email address")
		} else {
			req.Email = strings.TrimSpace(raw.Email)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return req, nil
}

// IsValidEmail reports whether email looks like an address, ignoring surrounding whitespace.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailPattern.MatchString(email)
}

// NormalizeOutput forces the mp3 extension on path.
func NormalizeOutput(path string) string {
	return filepath.Clean(util.WithExt(path, outputExt))
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}
