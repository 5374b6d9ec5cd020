package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the session loop.
type KeyMap struct {
	Hint  key.Binding
	List  key.Binding
	Next  key.Binding
	Prev  key.Binding
	ReRun key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// NewKeyMap returns the default keybindings.
func NewKeyMap() KeyMap {
	return KeyMap{
		Hint: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hint"),
		),
		List: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "list"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p", "previous"),
		),
		ReRun: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r", "re-run"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini-help view. It's part of the help.KeyMap interface.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Hint, k.List, k.Next, k.Prev, k.ReRun, k.Quit}
}

// FullHelp returns keybindings for the expanded help view. It's part of the help.KeyMap interface.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Hint, k.List, k.Next, k.Prev},
		{k.ReRun, k.Help, k.Quit},
	}
}
