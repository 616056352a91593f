package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings the strobe surface reacts to.
type KeyMap struct {
	Interrupt key.Binding
}

// DefaultKeyMap stops the strobe on Ctrl+C, Esc or q. The terminal is in
// raw mode, so Ctrl+C arrives as a key rather than SIGINT.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c", "esc", "q"),
			key.WithHelp("q", "stop"),
		),
	}
}
