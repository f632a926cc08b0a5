package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mashup-cli/mashup/icon"
	"github.com/mashup-cli/mashup/mashup"
	"github.com/mashup-cli/mashup/style"
)

type progressMsg struct {
	stage   mashup.Stage
	message string
}

type doneMsg struct {
	err error
}

type model struct {
	title   string
	cancel  context.CancelFunc
	keymap  *keymap
	spinner spinner.Model

	stage   mashup.Stage
	message string
	// finished holds the last message of every completed stage.
	finished   []string
	cancelling bool
	done       bool
	err        error
}

func newModel(title string, cancel context.CancelFunc) *model {
	return &model{
		title:   title,
		cancel:  cancel,
		keymap:  newKeymap(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(style.New().Foreground(style.AccentColor))),
		message: "Starting",
	}
}

func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.cancel) && !m.cancelling {
			m.cancelling = true
			m.message = "Cancelling"
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case progressMsg:
		if msg.stage != m.stage && m.message != "" {
			m.finished = append(m.finished, m.message)
		}
		m.stage = msg.stage
		m.message = msg.message
		return m, nil
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(style.Title(m.title))
	b.WriteString("\n\n")

	for _, line := range m.finished {
		b.WriteString(style.Fg(style.SuccessColor)(icon.Get(icon.Success)))
		b.WriteString(" ")
		b.WriteString(style.Faint(line))
		b.WriteString("\n")
	}

	switch {
	case m.done && m.err != nil:
		b.WriteString(style.Fg(style.ErrorColor)(icon.Get(icon.Fail)) + " " + m.message + "\n")
	case m.done:
		b.WriteString(style.Fg(style.SuccessColor)(icon.Get(icon.Success)) + " " + m.message + "\n")
	default:
		b.WriteString(m.spinner.View() + " " + m.message + "\n")
		b.WriteString(style.Faint(m.keymap.cancel.Help().Key+" "+m.keymap.cancel.Help().Desc) + "\n")
	}

	return b.String()
}
