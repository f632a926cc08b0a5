// Package tui renders the progress of a mashup run in the terminal.
package tui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mashup-cli/mashup/mashup"
)

// Job is the work shown by Run. It reports progress through notify.
type Job func(notify func(mashup.Stage, string)) error

// Run shows a spinner while job runs and returns the job's error.
// Pressing ctrl+c calls cancel and keeps waiting for the job to return.
func Run(title string, cancel context.CancelFunc, job Job) error {
	program := tea.NewProgram(newModel(title, cancel), tea.WithOutput(os.Stderr))

	go func() {
		err := job(func(stage mashup.Stage, message string) {
			program.Send(progressMsg{stage: stage, message: message})
		})
		program.Send(doneMsg{err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}

	return final.(*model).err
}
