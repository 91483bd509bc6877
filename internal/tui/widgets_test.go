package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/fretdrill/internal/fretboard"
	"github.com/verte-zerg/fretdrill/internal/note"
)

func testBoard() fretboardView {
	return fretboardView{
		origin: point{x: 2, y: 5},
		tuning: fretboard.StandardTuning,
		bounds: fretboard.Bounds{MinString: 1, MaxString: 3, MinFret: 3, MaxFret: 8},
		marks:  map[fretboard.Position]cellMark{},
	}
}

func TestFretboardRenderShape(t *testing.T) {
	board := testBoard()
	lines := strings.Split(board.Render(), "\n")
	if len(lines) != board.Height() {
		t.Fatalf("expected %d lines, got %d", board.Height(), len(lines))
	}
	row := lines[1]
	if !strings.HasPrefix(row, "B  |") {
		t.Fatalf("unexpected string row: %q", row)
	}
	if w := runewidth.StringWidth(row); w != board.Width() {
		t.Fatalf("expected row width %d, got %d", board.Width(), w)
	}
}

func TestFretboardHitTest(t *testing.T) {
	board := testBoard()
	cases := []struct {
		x, y int
		pos  fretboard.Position
		ok   bool
	}{
		{x: 2 + labelWidth, y: 6, pos: fretboard.Position{String: 1, Fret: 3}, ok: true},
		{x: 2 + labelWidth + cellStride - 1, y: 6, pos: fretboard.Position{String: 1, Fret: 3}, ok: true},
		{x: 2 + labelWidth + cellStride, y: 8, pos: fretboard.Position{String: 3, Fret: 4}, ok: true},
		{x: 2 + labelWidth + 4*cellStride + 2, y: 7, pos: fretboard.Position{String: 2, Fret: 7}, ok: true},
		{x: 2 + labelWidth + 5*cellStride, y: 7},
		{x: 2 + labelWidth - 1, y: 7},
		{x: 2 + labelWidth, y: 5},
		{x: 2 + labelWidth, y: 9},
	}
	for _, tc := range cases {
		act, ok := board.HitTest(tc.x, tc.y)
		if ok != tc.ok {
			t.Fatalf("hit (%d,%d): expected ok=%v", tc.x, tc.y, tc.ok)
		}
		if ok && (act.kind != actionPick || act.pos != tc.pos) {
			t.Fatalf("hit (%d,%d): expected %+v, got %+v", tc.x, tc.y, tc.pos, act)
		}
	}
}

func TestFretboardShowsMarkedNotes(t *testing.T) {
	board := testBoard()
	board.marks[fretboard.Position{String: 1, Fret: 3}] = markNatural
	board.marks[fretboard.Position{String: 2, Fret: 5}] = markQuery
	lines := strings.Split(board.Render(), "\n")
	if !strings.Contains(lines[1], "D") {
		t.Fatalf("expected D on the B string at fret 3: %q", lines[1])
	}
	if !strings.Contains(lines[2], "- ? -") {
		t.Fatalf("expected query marker: %q", lines[2])
	}
}

func TestInlayFor(t *testing.T) {
	want := map[int]string{0: "", 1: "", 3: "•", 7: "•", 12: "••", 15: "•", 24: "••"}
	for fret, dots := range want {
		if got := inlayFor(fret); got != dots {
			t.Fatalf("fret %d: expected %q, got %q", fret, dots, got)
		}
	}
}

func TestButtonRowHitTest(t *testing.T) {
	row := buttonRow(point{x: 2, y: 10}, []button{
		{label: "C", act: action{kind: actionNote, note: note.C}},
		{label: "C#", act: action{kind: actionNote, note: note.CSharp}},
	})
	if row[1].origin.x != 2+row[0].Width()+1 {
		t.Fatalf("unexpected second button origin: %+v", row[1].origin)
	}
	act, ok := row[1].HitTest(row[1].origin.x+1, 10)
	if !ok || act.note != note.CSharp {
		t.Fatalf("expected C# hit, got %+v ok=%v", act, ok)
	}
	if _, ok := row[0].HitTest(row[1].origin.x-1, 10); ok {
		t.Fatalf("gap between buttons must not hit")
	}
	if _, ok := row[0].HitTest(3, 11); ok {
		t.Fatalf("other rows must not hit")
	}
	if got := renderButtons(row); got != "[ C ] [ C# ]" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestFlashCountsDown(t *testing.T) {
	f := newFlash(flashWrong, 2)
	if !f.active() {
		t.Fatalf("expected active flash")
	}
	f = f.tick()
	if !f.active() || f.remaining != 1 {
		t.Fatalf("expected one frame left, got %+v", f)
	}
	f = f.tick()
	if f.active() || f.kind != flashNone {
		t.Fatalf("expected flash to clear, got %+v", f)
	}
	if newFlash(flashCorrect, 0).active() {
		t.Fatalf("zero frames must not flash")
	}
}

func TestCenterFill(t *testing.T) {
	if got := centerFill("F#", 5, "-"); got != "-F#--" {
		t.Fatalf("unexpected fill: %q", got)
	}
	if got := centerFill("toolong", 3, "-"); got != "too" {
		t.Fatalf("unexpected truncation: %q", got)
	}
}
