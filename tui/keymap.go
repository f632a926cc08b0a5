package tui

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	cancel key.Binding
}

func newKeymap() *keymap {
	return &keymap{
		cancel: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d", "q"),
			key.WithHelp("ctrl+c", "cancel"),
		),
	}
}
