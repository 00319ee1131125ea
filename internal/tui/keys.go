package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Add       key.Binding
	Delete    key.Binding
	Rename    key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Dismiss   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Add:       key.NewBinding(key.WithKeys("a", "+"), key.WithHelp("a", "add")),
		Delete:    key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete")),
		Rename:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit name")),
		MoveLeft:  key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "move left")),
		MoveRight: key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "move right")),
		Dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// footerBindings are the bindings listed in the footer hint line.
func (k keyMap) footerBindings(toolbar bool) []key.Binding {
	if !toolbar {
		return []key.Binding{k.Up, k.Down, k.Select, k.Add, k.Help, k.Quit}
	}
	return []key.Binding{k.Add, k.Delete, k.Rename, k.MoveLeft, k.MoveRight, k.Dismiss, k.Help}
}
