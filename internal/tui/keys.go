package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Filler   key.Binding
	Finish   key.Binding
	Reset    key.Binding
	AmpUp    key.Binding
	AmpDown  key.Binding
	Position key.Binding
	Ghost    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Filler:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "filler")),
		Finish:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "finish")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		AmpUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "amp up")),
		AmpDown:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "amp down")),
		Position: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "position")),
		Ghost:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "ghost")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filler, k.Finish, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Filler, k.Finish, k.Reset},
		{k.AmpUp, k.AmpDown, k.Position, k.Ghost},
		{k.Help, k.Quit},
	}
}
