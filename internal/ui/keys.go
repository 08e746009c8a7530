package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap contains the keyboard shortcuts for the tab list
type KeyMap struct {
	EditRoots key.Binding
	Next      key.Binding
	Open      key.Binding
	Previous  key.Binding
	Quit      key.Binding
	Refresh   key.Binding
}

// NewKeyMap creates a KeyMap with the default bindings
func NewKeyMap() KeyMap {
	return KeyMap{
		EditRoots: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit roots"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "tab"),
			key.WithHelp("n", "next tab"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "switch"),
		),
		Previous: key.NewBinding(
			key.WithKeys("p", "shift+tab"),
			key.WithHelp("p", "previous tab"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// ShortHelp returns the bindings shown in the bottom bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Next, k.Previous, k.Refresh, k.EditRoots, k.Quit}
}

// FullHelp returns all bindings grouped in columns
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Next, k.Previous},
		{k.Refresh, k.EditRoots, k.Quit},
	}
}
