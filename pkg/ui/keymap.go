package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PrevQuery  key.Binding
	NextQuery  key.Binding
	SwitchPane key.Binding
	Rerun      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	PrevQuery: key.NewBinding(
		key.WithKeys("shift+tab", "k", "["),
		key.WithHelp("k/[", "previous query"),
	),
	NextQuery: key.NewBinding(
		key.WithKeys("j", "]"),
		key.WithHelp("j/]", "next query"),
	),
	SwitchPane: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "rows / plan"),
	),
	Rerun: key.NewBinding(
		key.WithKeys("r", "ctrl+r"),
		key.WithHelp("r", "re-run query"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "scroll down"),
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

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextQuery, k.SwitchPane, k.Rerun, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevQuery, k.NextQuery, k.SwitchPane},
		{k.ScrollUp, k.ScrollDown, k.Rerun},
		{k.Help, k.Quit},
	}
}
