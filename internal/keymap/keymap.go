// Package keymap holds the key bindings of the drill screens.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Mapping lists every binding. Screens enable the subset they handle, and
// help hides disabled bindings.
type Mapping struct {
	Start      key.Binding
	Pause      key.Binding
	Resume     key.Binding
	Quit       key.Binding
	NewSession key.Binding
	Note       key.Binding
	Sharp      key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Pick       key.Binding
	Exit       key.Binding
}

// DefaultMapping returns a fresh copy of the default bindings.
func DefaultMapping() Mapping {
	return Mapping{
		Start: key.NewBinding(
			key.WithKeys("s", tea.KeyEnter.String()),
			key.WithHelp("s/enter", "start"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Resume: key.NewBinding(
			key.WithKeys("p", "r"),
			key.WithHelp("p", "resume"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", tea.KeyEsc.String()),
			key.WithHelp("q", "quit"),
		),
		NewSession: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new session"),
		),
		Note: key.NewBinding(
			key.WithKeys("a", "b", "c", "d", "e", "f", "g", "A", "B", "C", "D", "E", "F", "G"),
			key.WithHelp("a-g", "answer"),
		),
		Sharp: key.NewBinding(
			key.WithKeys("#"),
			key.WithHelp("#", "sharp"),
		),
		Up: key.NewBinding(
			key.WithKeys(tea.KeyUp.String(), "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(tea.KeyDown.String(), "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys(tea.KeyLeft.String(), "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys(tea.KeyRight.String(), "l"),
			key.WithHelp("→/l", "right"),
		),
		Pick: key.NewBinding(
			key.WithKeys(tea.KeySpace.String(), tea.KeyEnter.String()),
			key.WithHelp("space", "pick"),
		),
		Exit: key.NewBinding(
			key.WithKeys(tea.KeyCtrlC.String()),
			key.WithHelp("ctrl+c", "exit"),
		),
	}
}

// Screen selects which bindings are active.
type Screen int

const (
	ScreenReady Screen = iota
	ScreenName
	ScreenFind
	ScreenPaused
	ScreenFinished
)

// Activate enables the bindings that apply to screen and disables the rest.
func (m *Mapping) Activate(screen Screen) {
	on := map[*key.Binding]bool{
		&m.Start:      screen == ScreenReady,
		&m.Pause:      screen == ScreenName || screen == ScreenFind,
		&m.Resume:     screen == ScreenPaused,
		&m.Quit:       true,
		&m.NewSession: screen == ScreenFinished,
		&m.Note:       screen == ScreenName,
		&m.Sharp:      screen == ScreenName,
		&m.Up:         screen == ScreenFind,
		&m.Down:       screen == ScreenFind,
		&m.Left:       screen == ScreenFind,
		&m.Right:      screen == ScreenFind,
		&m.Pick:       screen == ScreenFind,
		&m.Exit:       true,
	}
	for b, enabled := range on {
		b.SetEnabled(enabled)
	}
}

// ShortHelp implements help.KeyMap.
func (m Mapping) ShortHelp() []key.Binding {
	return []key.Binding{
		m.Start, m.Note, m.Sharp, m.Pick, m.Pause, m.Resume, m.NewSession, m.Quit, m.Exit,
	}
}

// FullHelp implements help.KeyMap.
func (m Mapping) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.Start, m.Pause, m.Resume, m.Quit, m.NewSession, m.Exit},
		{m.Note, m.Sharp},
		{m.Up, m.Down, m.Left, m.Right, m.Pick},
	}
}
