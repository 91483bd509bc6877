package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// styledCell is rendered text paired with its visible width, so rows of
// styled fragments can be measured without stripping escape codes.
type styledCell struct {
	s     string
	width int
}

func newCell(text string, style lipgloss.Style) styledCell {
	return styledCell{
		s:     style.Render(text),
		width: runewidth.StringWidth(text),
	}
}

func plainCell(text string) styledCell {
	return styledCell{s: text, width: runewidth.StringWidth(text)}
}

// centerFill centers text in width columns, padding with fill.
func centerFill(text string, width int, fill string) string {
	w := runewidth.StringWidth(text)
	if w >= width {
		return runewidth.Truncate(text, width, "")
	}
	pad := width - w
	left := pad / 2
	return strings.Repeat(fill, left) + text + strings.Repeat(fill, pad-left)
}

func renderCells(cells []styledCell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.s)
	}
	return b.String()
}
