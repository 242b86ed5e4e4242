package tui

import "github.com/charmbracelet/bubbles/key"

// GlobalKeys are always active. Every action key avoids the text input's
// own editing chords (ctrl+a, ctrl+e, ctrl+k and friends) so typing an
// objective never triggers a dashboard action.
type GlobalKeys struct {
	Quit       key.Binding
	Help       key.Binding
	Stop       key.Binding
	Pause      key.Binding
	SystemLogs key.Binding
	Abort      key.Binding
	Status     key.Binding
}

var globalKeys = GlobalKeys{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+q", "ctrl+c"),
		key.WithHelp("Ctrl+q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+h"),
		key.WithHelp("Ctrl+h", "help"),
	),
	Stop: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("Ctrl+s", "stop run"),
	),
	Pause: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("Ctrl+p", "pause display"),
	),
	SystemLogs: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("Ctrl+g", "system logs"),
	),
	Abort: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("Ctrl+x", "abort iteration"),
	),
	Status: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("Ctrl+r", "request status"),
	),
}

// ConfirmKeys for inline confirmation prompts.
type ConfirmKeys struct {
	Yes    key.Binding
	No     key.Binding
	Cancel key.Binding
}

var confirmKeys = ConfirmKeys{
	Yes: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	No: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "cancel"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
}
