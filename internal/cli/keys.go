package cli

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Reset     key.Binding
	Fit       key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Deeper    key.Binding
	Shallower key.Binding
	Direction key.Binding
	Back      key.Binding
	Unpin     key.Binding
	Labels    key.Binding
	Help      key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r", "0"),
		key.WithHelp("r", "reset view"),
	),
	Fit: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fit"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "zoom out"),
	),
	Deeper: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "depth +1"),
	),
	Shallower: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "depth -1"),
	),
	Direction: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "direction"),
	),
	Back: key.NewBinding(
		key.WithKeys("backspace", "b"),
		key.WithHelp("b", "previous root"),
	),
	Unpin: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "unpin all"),
	),
	Labels: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "labels"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reset, k.Fit, k.Direction, k.Back, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Reset, k.Fit, k.ZoomIn, k.ZoomOut},
		{k.Deeper, k.Shallower, k.Direction, k.Back},
		{k.Unpin, k.Labels, k.Help, k.Quit},
	}
}
