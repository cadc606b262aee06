package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	next    key.Binding
	enter   key.Binding
	back    key.Binding
	save    key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		next:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "build")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new playlist")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.next, k.enter},
		{k.back, k.save, k.restart, k.quit},
	}
}
