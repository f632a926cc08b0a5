// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Fetching - these keys tune how videos are searched and downloaded.
const (
	FetchSearchSuffix   = "fetch.search_suffix"
	FetchSearchFactor   = "fetch.search_factor"
	FetchSearchFloor    = "fetch.search_floor"
	FetchMinClips       = "fetch.min_clips"
	FetchRetries        = "fetch.retries"
	FetchYtdlpRetries   = "fetch.ytdlp_retries"
	FetchBackoff        = "fetch.backoff"
	FetchStableChecks   = "fetch.stable_checks"
	FetchStableInterval = "fetch.stable_interval"
	FetchAudioQuality   = "fetch.audio_quality"
)

// Search caching and suggestions.
const (
	SearchCache                = "search.cache"
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// External tools.
const (
	YtdlpPath   = "tools.ytdlp"
	FFmpegPath  = "tools.ffmpeg"
	FFprobePath = "tools.ffprobe"
)

// Assembling - these keys shape the produced audio.
const (
	MashupIntroOffset = "mashup.intro_offset"
	MashupBitrate     = "mashup.bitrate"
)

// SMTP delivery used by the web form.
const (
	SMTPServer   = "smtp.server"
	SMTPPort     = "smtp.port"
	SMTPUsername = "smtp.username"
	SMTPPassword = "smtp.password"
	SMTPFrom     = "smtp.from"
	SMTPSubject  = "smtp.subject"
)

// Web form server.
const (
	WebAddr      = "web.addr"
	WebSecretKey = "web.secret_key"
)

// History tracking.
const (
	HistorySave = "history.save"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the application behavior outside the web server.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
