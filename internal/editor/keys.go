package editor

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the editor's bindings; help text comes from the same
// definitions.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	AddGate    key.Binding
	Delete     key.Binding
	Move       key.Binding
	Save       key.Binding
	Clear      key.Binding
	AddWire    key.Binding
	RemoveWire key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		AddGate:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add gate")),
		Delete:     key.NewBinding(key.WithKeys("backspace", "delete", "x"), key.WithHelp("⌫/x", "delete gate")),
		Move:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move gate")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Clear:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "clear circuit")),
		AddWire:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "add wire")),
		RemoveWire: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "remove wire")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "confirm")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddGate, k.Delete, k.Move, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.AddGate, k.Delete, k.Move, k.Clear},
		{k.AddWire, k.RemoveWire, k.Save, k.Quit},
	}
}
