package tui

import "github.com/charmbracelet/lipgloss"

type flashKind int

const (
	flashNone flashKind = iota
	flashCorrect
	flashWrong
)

// flash is a short-lived background highlight counted down in frames.
type flash struct {
	kind      flashKind
	remaining int
}

func newFlash(kind flashKind, frames int) flash {
	if frames <= 0 {
		return flash{}
	}
	return flash{kind: kind, remaining: frames}
}

func (f flash) active() bool {
	return f.kind != flashNone && f.remaining > 0
}

// tick advances the flash by one frame.
func (f flash) tick() flash {
	if !f.active() {
		return flash{}
	}
	f.remaining--
	if f.remaining == 0 {
		return flash{}
	}
	return f
}

func (f flash) style(base lipgloss.Style) lipgloss.Style {
	if !f.active() {
		return base
	}
	switch f.kind {
	case flashCorrect:
		return base.Background(correctColor).Foreground(flashText)
	case flashWrong:
		return base.Background(wrongColor).Foreground(flashText)
	}
	return base
}
