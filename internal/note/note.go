// Package note defines pitch classes and chromatic string layouts.
package note

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// PitchClass is one of the 12 octave-independent note names.
type PitchClass int

// Chromatic ordering starting at C.
const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

// Count is the number of pitch classes in an octave.
const Count = 12

// ErrUnknownNote is returned when a name is not a sharp-spelled pitch class.
var ErrUnknownNote = errors.New("note: unknown note name")

var names = [Count]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var naturals = []PitchClass{C, D, E, F, G, A, B}

// String returns the sharp spelling ("C", "C#", ...).
func (p PitchClass) String() string {
	if p.Valid() {
		return names[p]
	}
	return fmt.Sprintf("PitchClass(%d)", int(p))
}

// Valid reports whether p is within the chromatic range.
func (p PitchClass) Valid() bool {
	return p >= C && p <= B
}

// Natural reports whether p has a single-character display name.
func (p PitchClass) Natural() bool {
	return p.Valid() && len(names[p]) == 1
}

// Transpose moves p by the given number of semitones, wrapping modulo 12.
func (p PitchClass) Transpose(semitones int) PitchClass {
	v := (int(p) + semitones) % Count
	if v < 0 {
		v += Count
	}
	return PitchClass(v)
}

// Parse converts a sharp-spelled name (case-insensitive) to a pitch class.
func Parse(name string) (PitchClass, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return PitchClass(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNote, name)
}

// All returns the 12 pitch classes in chromatic order.
func All() []PitchClass {
	out := make([]PitchClass, Count)
	for i := range out {
		out[i] = PitchClass(i)
	}
	return out
}

// Naturals returns the 7 natural pitch classes, C through B.
func Naturals() []PitchClass {
	return append([]PitchClass(nil), naturals...)
}

// NotesForString yields fretCount pitch classes starting at open and rising
// one semitone per fret. The sequence can be ranged over any number of times.
func NotesForString(open PitchClass, fretCount int) iter.Seq[PitchClass] {
	return func(yield func(PitchClass) bool) {
		for i := 0; i < fretCount; i++ {
			if !yield(open.Transpose(i)) {
				return
			}
		}
	}
}
