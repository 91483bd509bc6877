// Package fretboard maps tunings and fret ranges to quiz items.
package fretboard

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/note"
)

// StandardTuning lists open strings from the highest-pitched string down.
var StandardTuning = []note.PitchClass{note.E, note.B, note.G, note.D, note.A, note.E}

// Presets holds the named tunings accepted by ParseTuning.
var Presets = map[string][]note.PitchClass{
	"standard": StandardTuning,
	"drop-d":   {note.E, note.B, note.G, note.D, note.A, note.D},
	"dadgad":   {note.D, note.A, note.G, note.D, note.A, note.D},
	"open-g":   {note.D, note.B, note.G, note.D, note.G, note.D},
	"half-step": {
		note.DSharp, note.ASharp, note.FSharp, note.CSharp, note.GSharp, note.DSharp,
	},
}

// DefaultBounds covers six strings and frets 0 through 12.
var DefaultBounds = Bounds{MinString: 0, MaxString: 5, MinFret: 0, MaxFret: 13}

// Bounds selects a rectangle of the fretboard. MaxString is inclusive,
// MaxFret is exclusive.
type Bounds struct {
	MinString int
	MaxString int
	MinFret   int
	MaxFret   int
}

// Strings returns the number of strings covered.
func (b Bounds) Strings() int {
	return b.MaxString - b.MinString + 1
}

// Frets returns the number of frets covered.
func (b Bounds) Frets() int {
	return b.MaxFret - b.MinFret
}

// Contains reports whether p lies inside the bounds.
func (b Bounds) Contains(p Position) bool {
	return p.String >= b.MinString && p.String <= b.MaxString &&
		p.Fret >= b.MinFret && p.Fret < b.MaxFret
}

// Position identifies a string/fret intersection.
type Position struct {
	String int
	Fret   int
}

// ConfigError reports a malformed tuning or bounds.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ParseTuning accepts a preset name or a comma-separated list of notes,
// highest string first.
func ParseTuning(value string) ([]note.PitchClass, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, &ConfigError{Field: "tuning", Reason: "must not be empty"}
	}
	if preset, ok := Presets[strings.ToLower(value)]; ok {
		return append([]note.PitchClass(nil), preset...), nil
	}
	parts := strings.Split(value, ",")
	tuning := make([]note.PitchClass, 0, len(parts))
	for _, part := range parts {
		p, err := note.Parse(part)
		if err != nil {
			return nil, &ConfigError{Field: "tuning", Reason: err.Error()}
		}
		tuning = append(tuning, p)
	}
	return tuning, nil
}

// FormatTuning renders a tuning as a comma-separated note list.
func FormatTuning(tuning []note.PitchClass) string {
	parts := make([]string, len(tuning))
	for i, p := range tuning {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

// NoteAt returns the pitch class sounding at p.
func NoteAt(tuning []note.PitchClass, p Position) note.PitchClass {
	return tuning[p.String].Transpose(p.Fret)
}

// Validate checks the tuning against the bounds.
func Validate(tuning []note.PitchClass, b Bounds) error {
	switch {
	case b.MinString < 0 || b.MinFret < 0:
		return &ConfigError{Field: "bounds", Reason: "minimum string and fret must be >= 0"}
	case b.MinString > b.MaxString:
		return &ConfigError{Field: "bounds", Reason: fmt.Sprintf("min string %d > max string %d", b.MinString, b.MaxString)}
	case b.MinFret > b.MaxFret:
		return &ConfigError{Field: "bounds", Reason: fmt.Sprintf("min fret %d > max fret %d", b.MinFret, b.MaxFret)}
	case len(tuning) < b.Strings() || b.MaxString >= len(tuning):
		return &ConfigError{Field: "tuning", Reason: fmt.Sprintf("%d strings cannot cover strings %d-%d", len(tuning), b.MinString, b.MaxString)}
	}
	for i, p := range tuning {
		if !p.Valid() {
			return &ConfigError{Field: "tuning", Reason: fmt.Sprintf("string %d has no valid note", i)}
		}
	}
	return nil
}

// BuildPool lists a quiz item for every position in bounds, string-major and
// fret-minor. With naturalOnly set, positions sounding a sharp are skipped.
func BuildPool(tuning []note.PitchClass, b Bounds, naturalOnly bool) ([]model.QuizItem, error) {
	if err := Validate(tuning, b); err != nil {
		return nil, err
	}
	items := make([]model.QuizItem, 0, b.Strings()*b.Frets())
	for s := b.MinString; s <= b.MaxString; s++ {
		offset := 0
		for p := range note.NotesForString(tuning[s].Transpose(b.MinFret), b.Frets()) {
			if !naturalOnly || p.Natural() {
				items = append(items, model.QuizItem{String: s, Fret: b.MinFret + offset, Note: p})
			}
			offset++
		}
	}
	return items, nil
}

// PositionsOf returns the positions of items sounding target.
func PositionsOf(items []model.QuizItem, target note.PitchClass) []Position {
	var out []Position
	for _, item := range items {
		if item.Note == target {
			out = append(out, Position{String: item.String, Fret: item.Fret})
		}
	}
	return out
}

// IndexOf returns the pool index of the item at p, or -1.
func IndexOf(items []model.QuizItem, p Position) int {
	for i, item := range items {
		if item.String == p.String && item.Fret == p.Fret {
			return i
		}
	}
	return -1
}
