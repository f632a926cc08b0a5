// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// ArchiveNameTemplate is the fmt pattern for the zip attached to mashup emails.
const ArchiveNameTemplate = "%s_mashup.zip"

// MailBodyTemplate is a Go text/template for the body of mashup emails.
const MailBodyTemplate = `Hi,

Attached is the mashup you requested.

Singer:   {{ .Singer }}
Clips:    {{ .Clips }} x {{ .Seconds }}s
Duration: {{ .Duration }}

-- {{ .App }} {{ .Version }}
`
