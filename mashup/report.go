package mashup

import (
	"time"

	"github.com/mashup-cli/mashup/history"
)

// Report summarizes a finished run.
type Report struct {
	ID          string        `json:"id" jsonschema:"description=Run identifier"`
	Singer      string        `json:"singer"`
	Requested   int           `json:"requested" jsonschema:"description=Number of videos asked for"`
	Used        int           `json:"used" jsonschema:"description=Number of clips in the mashup"`
	Seconds     int           `json:"seconds" jsonschema:"description=Length of every clip in seconds"`
	Duration    time.Duration `json:"duration" jsonschema:"description=Total length in nanoseconds"`
	Destination string        `json:"destination" jsonschema:"description=Output file or email recipient"`
	CreatedAt   time.Time     `json:"created_at"`
	Elapsed     time.Duration `json:"elapsed" jsonschema:"description=Wall time of the run in nanoseconds"`
}

// Record converts the report into a history record.
func (r *Report) Record() *history.Record {
	return &history.Record{
		ID:          r.ID,
		Singer:      r.Singer,
		Clips:       r.Used,
		Seconds:     r.Seconds,
		Duration:    r.Duration,
		Destination: r.Destination,
		CreatedAt:   r.CreatedAt,
	}
}
