// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/mashup-cli/mashup/color"
	"github.com/mashup-cli/mashup/constant"
	"github.com/mashup-cli/mashup/key"
	"github.com/mashup-cli/mashup/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Mashup + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

// LegacyEnv maps keys to the unprefixed variable names accepted for compatibility with older deployments.
var LegacyEnv = map[string]string{
	key.SMTPServer:   "SMTP_SERVER",
	key.SMTPPort:     "SMTP_PORT",
	key.SMTPUsername: "SMTP_USERNAME",
	key.SMTPPassword: "SMTP_PASSWORD",
	key.SMTPFrom:     "FROM_EMAIL",
	key.WebSecretKey: "SECRET_KEY",
}

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.FetchSearchSuffix, "songs", "Words appended to the singer name when searching")
	register(key.FetchSearchFactor, 2, "Search results requested per wanted video.\nExtra results cover failed downloads")
	register(key.FetchSearchFloor, 20, "Minimum number of search results to request")
	register(key.FetchMinClips, 0, "Fewest downloaded clips accepted before the run aborts.\n0 means every requested video must download")
	register(key.FetchRetries, 3, "Download attempts per video")
	register(key.FetchYtdlpRetries, 10, "Retries yt-dlp performs internally for network and fragment errors")
	register(key.FetchBackoff, "2s", "Wait before the first retry. Doubles on every further attempt")
	register(key.FetchStableChecks, 20, "Times a downloaded file size is checked before it is considered locked")
	register(key.FetchStableInterval, "500ms", "Interval between file size checks")
	register(key.FetchAudioQuality, "192K", "Audio quality passed to yt-dlp on extraction")
	register(key.SearchCache, true, "Cache search results on disk for a week")
	register(key.SearchShowQuerySuggestions, true, "Suggest previously used singer names")
	register(key.YtdlpPath, "", "Path to the yt-dlp executable.\nEmpty resolves it from PATH or the managed install")
	register(key.FFmpegPath, "ffmpeg", "Path to the ffmpeg executable")
	register(key.FFprobePath, "ffprobe", "Path to the ffprobe executable")
	register(key.MashupIntroOffset, 0, "Seconds skipped at the start of every clip")
	register(key.MashupBitrate, "192k", "Bitrate of the produced mp3")
	register(key.SMTPServer, "smtp.gmail.com", "SMTP server used by the web form")
	register(key.SMTPPort, 587, "SMTP port. 465 uses implicit TLS, anything else STARTTLS")
	register(key.SMTPUsername, "", "SMTP username")
	register(key.SMTPPassword, "", "SMTP password.\nWhen empty the password stored with \"mashup smtp login\" is used")
	register(key.SMTPFrom, "", "Sender address. Defaults to the SMTP username")
	register(key.SMTPSubject, "Your mashup file", "Subject of mashup emails")
	register(key.WebAddr, ":8080", "Address the web form listens on")
	register(key.WebSecretKey, "", "Secret used to sign form tokens.\nA random one is generated per process when empty")
	register(key.HistorySave, true, "Remember produced mashups")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
