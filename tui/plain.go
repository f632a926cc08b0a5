package tui

import (
	"fmt"
	"io"

	"github.com/mashup-cli/mashup/icon"
	"github.com/mashup-cli/mashup/mashup"
)

// Plain returns a progress callback printing one line per update, for non-interactive output.
func Plain(w io.Writer) func(mashup.Stage, string) {
	return func(stage mashup.Stage, message string) {
		mark := icon.Get(icon.Progress)
		if stage == mashup.StageDone {
			mark = icon.Get(icon.Success)
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", mark, message)
	}
}
