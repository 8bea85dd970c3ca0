package planner

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the planner TUI
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	ToggleCart key.Binding
	Increase   key.Binding
	Decrease   key.Binding
	Edit       key.Binding
	Delete     key.Binding
	ResetCart  key.Binding
	Search     key.Binding
	AddAisle   key.Binding
	NextAisle  key.Binding
	PrevAisle  key.Binding
	Submit     key.Binding
	Cancel     key.Binding
	FoldPrefix key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Toggle, k.ToggleCart, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.FoldPrefix},
		{k.ToggleCart, k.Increase, k.Decrease, k.ResetCart},
		{k.Search, k.Edit, k.Delete, k.AddAisle},
		{k.NextAisle, k.PrevAisle, k.Submit, k.Cancel},
		{k.Help, k.Quit},
	}
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "toggle needed / fold aisle"),
	),
	ToggleCart: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "toggle in cart"),
	),
	Increase: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "quantity up"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "quantity down"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit item"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "x"),
		key.WithHelp("d", "delete item"),
	),
	ResetCart: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "empty cart"),
	),
	Search: key.NewBinding(
		key.WithKeys("/", "i"),
		key.WithHelp("/", "search or add"),
	),
	AddAisle: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "add aisle"),
	),
	NextAisle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next aisle"),
	),
	PrevAisle: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous aisle"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	FoldPrefix: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "fold commands (za/zM/zR)"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
