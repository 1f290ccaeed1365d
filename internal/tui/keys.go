package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding // search mode
	Copy      key.Binding // browse mode, same key as Open
	Person    key.Binding
	Quit      key.Binding
	PreviewUp key.Binding
	PreviewDn key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "ctrl+k"), key.WithHelp("up", "prev")),
	Down:      key.NewBinding(key.WithKeys("down", "ctrl+j"), key.WithHelp("dn", "next")),
	Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open in editor")),
	Copy:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "copy report")),
	Person:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "person")),
	Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	PreviewUp: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("C-u", "scroll up")),
	PreviewDn: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("C-d", "scroll down")),
	PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
	PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
}

// hints returns the status bar help for mode.
func (k keyMap) hints(mode tuiMode) []string {
	bindings := []key.Binding{k.Up, k.Down, k.Open}
	if mode == modeBrowse {
		bindings = []key.Binding{k.Up, k.Down, k.Person, k.Copy}
	}
	bindings = append(bindings, k.PreviewUp, k.PreviewDn, k.Quit)

	out := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		out[i] = h.Key + " " + h.Desc
	}
	return out
}
