package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/fretdrill/internal/fretboard"
	"github.com/verte-zerg/fretdrill/internal/note"
)

type actionKind int

const (
	actionNone actionKind = iota
	actionStart
	actionPause
	actionResume
	actionQuit
	actionNewSession
	actionNote
	actionPick
)

// action is what an input resolves to, whichever device produced it.
type action struct {
	kind actionKind
	note note.PitchClass
	pos  fretboard.Position
}

// Element is a widget laid out at a fixed cell origin.
type Element interface {
	Render() string
	HitTest(x, y int) (action, bool)
}

type point struct {
	x int
	y int
}

const (
	labelWidth = 4
	cellWidth  = 5
	cellStride = cellWidth + 1
)

// cellMark decides what a fret cell shows. Unmarked cells draw bare wire.
type cellMark int

const (
	markNone cellMark = iota
	markNote
	markNatural
	markQuery
	markFound
	markTarget
)

// fretboardView draws strings as rows and frets as fixed-width cells.
// Row 0 holds fret numbers and the last row holds inlay dots.
type fretboardView struct {
	origin point
	tuning []note.PitchClass
	bounds fretboard.Bounds
	marks  map[fretboard.Position]cellMark
	cursor *fretboard.Position
	flash  flash
	dimmed bool
}

func (f fretboardView) Height() int {
	return f.bounds.Strings() + 2
}

func (f fretboardView) Width() int {
	return labelWidth + f.bounds.Frets()*cellStride
}

func (f fretboardView) Render() string {
	lines := make([]string, 0, f.Height())
	lines = append(lines, f.header())
	for s := f.bounds.MinString; s <= f.bounds.MaxString; s++ {
		lines = append(lines, f.stringRow(s))
	}
	lines = append(lines, f.inlays())
	return strings.Join(lines, "\n")
}

func (f fretboardView) header() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth))
	for fret := f.bounds.MinFret; fret < f.bounds.MaxFret; fret++ {
		b.WriteString(centerFill(fmt.Sprintf("%d", fret), cellWidth, " "))
		b.WriteByte(' ')
	}
	return fretNumberStyle.Render(b.String())
}

func (f fretboardView) stringRow(s int) string {
	cells := make([]styledCell, 0, f.bounds.Frets()*2+1)
	open := f.tuning[s]
	cells = append(cells, newCell(runewidth.FillRight(open.String(), labelWidth-1)+"|", stringLabelStyle))
	for fret := f.bounds.MinFret; fret < f.bounds.MaxFret; fret++ {
		pos := fretboard.Position{String: s, Fret: fret}
		cells = append(cells, f.cell(pos), plainCell("|"))
	}
	return renderCells(cells)
}

func (f fretboardView) cell(pos fretboard.Position) styledCell {
	name := fretboard.NoteAt(f.tuning, pos).String()
	text := centerFill("", cellWidth, "-")
	style := wireStyle
	switch f.marks[pos] {
	case markNote:
		text = centerFill(name, cellWidth, "-")
		style = dimNoteStyle
	case markNatural:
		text = centerFill(name, cellWidth, "-")
		style = noteStyle
	case markQuery:
		text = centerFill(" ? ", cellWidth, "-")
		style = f.flash.style(queryStyle)
	case markFound:
		text = centerFill(name, cellWidth, "-")
		style = foundStyle
	case markTarget:
		text = centerFill(name, cellWidth, "-")
		style = missedStyle
	}
	if f.dimmed {
		style = wireStyle
	}
	if f.cursor != nil && *f.cursor == pos {
		style = style.Reverse(true)
	}
	return newCell(text, style)
}

func (f fretboardView) inlays() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth))
	for fret := f.bounds.MinFret; fret < f.bounds.MaxFret; fret++ {
		b.WriteString(centerFill(inlayFor(fret), cellWidth, " "))
		b.WriteByte(' ')
	}
	return inlayStyle.Render(b.String())
}

func inlayFor(fret int) string {
	if fret <= 0 {
		return ""
	}
	switch fret % 12 {
	case 0:
		return "••"
	case 3, 5, 7, 9:
		return "•"
	}
	return ""
}

// HitTest maps a cell inside a string row to its fretboard position.
// Fret separators belong to the fret on their left.
func (f fretboardView) HitTest(x, y int) (action, bool) {
	row := y - f.origin.y - 1
	col := x - f.origin.x - labelWidth
	if row < 0 || row >= f.bounds.Strings() || col < 0 {
		return action{}, false
	}
	fret := col / cellStride
	if fret >= f.bounds.Frets() {
		return action{}, false
	}
	pos := fretboard.Position{String: f.bounds.MinString + row, Fret: f.bounds.MinFret + fret}
	return action{kind: actionPick, pos: pos}, true
}

// button is a single-row clickable label.
type button struct {
	origin point
	label  string
	act    action
	style  lipgloss.Style
}

func (b button) Width() int {
	return runewidth.StringWidth(b.label) + 4
}

func (b button) Render() string {
	return b.style.Render("[ " + b.label + " ]")
}

func (b button) HitTest(x, y int) (action, bool) {
	if y != b.origin.y || x < b.origin.x || x >= b.origin.x+b.Width() {
		return action{}, false
	}
	return b.act, true
}

// buttonRow places buttons left to right from origin with one column gap.
func buttonRow(origin point, specs []button) []button {
	out := make([]button, 0, len(specs))
	x := origin.x
	for _, b := range specs {
		b.origin = point{x: x, y: origin.y}
		x += b.Width() + 1
		out = append(out, b)
	}
	return out
}

func renderButtons(buttons []button) string {
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		parts = append(parts, b.Render())
	}
	return strings.Join(parts, " ")
}
