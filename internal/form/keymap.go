package form

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the control keys for the injections form. Plain
// character keys always go to the focused text input, so every form
// action lives on a control chord or a navigation key.
type keyMap struct {
	NextField   key.Binding
	PrevField   key.Binding
	NextGroup   key.Binding
	PrevGroup   key.Binding
	AddSelector key.Binding
	DelSelector key.Binding
	AddGroup    key.Binding
	RemoveGroup key.Binding
	Preview     key.Binding
	Submit      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "previous field"),
		),
		NextGroup: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "next injection"),
		),
		PrevGroup: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "previous injection"),
		),
		AddSelector: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "add selector"),
		),
		DelSelector: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "delete selector"),
		),
		AddGroup: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new injection"),
		),
		RemoveGroup: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "remove injection"),
		),
		Preview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "toggle preview"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+_"),
			key.WithHelp("ctrl+/", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Preview, k.Submit, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.NextGroup, k.PrevGroup},
		{k.AddSelector, k.DelSelector, k.AddGroup, k.RemoveGroup},
		{k.Preview, k.Submit, k.Quit},
	}
}
