// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Mashup is the canonical application identifier used for filesystem paths and CLI branding.
	Mashup = "mashup"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the HTTP User-Agent string used for outgoing requests.
	UserAgent = Mashup + "/" + Version
)

// Build metadata, injected with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
