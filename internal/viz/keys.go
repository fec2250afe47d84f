package viz

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the live view's key bindings.
type KeyMap struct {
	Shake   key.Binding
	Pause   key.Binding
	Reset   key.Binding
	Next    key.Binding
	Up      key.Binding
	Down    key.Binding
	Rewind  key.Binding
	Forward key.Binding
	Theme   key.Binding
	Record  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Shake, k.Pause, k.Reset, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Shake, k.Pause, k.Reset},
		{k.Next, k.Up, k.Down},
		{k.Rewind, k.Forward, k.Record},
		{k.Theme, k.Help, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Shake: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "shake"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next param"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "param +5%"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "param -5%"),
		),
		Rewind: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "rewind"),
		),
		Forward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "forward"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Record: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "record gif"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}
