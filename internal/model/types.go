// Package model defines shared data structures.
package model

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/fretdrill/internal/note"
)

// DrillKind names a quiz variant.
type DrillKind string

// Supported drills.
const (
	DrillNameNote DrillKind = "name"
	DrillFindAll  DrillKind = "find"
)

// Config defines drill settings.
type Config struct {
	Drill         DrillKind
	Tuning        []note.PitchClass
	MinString     int
	MaxString     int
	MinFret       int
	MaxFret       int
	FastThreshold time.Duration
	FocusWeak     bool
	WeakFactor    float64
	FlashFrames   int
	AdvanceDelay  time.Duration
	Logger        *slog.Logger
}

// QuizItem is one fretboard position the drill can ask about.
// Identity is (String, Fret); the counters belong to the running session.
type QuizItem struct {
	String        int
	Fret          int
	Note          note.PitchClass
	TimesSelected int
	TimesWrong    int
	TimesCorrect  int
	ResponseTime  time.Duration
}

// AverageResponse returns the mean time to a correct answer, or zero.
func (q QuizItem) AverageResponse() time.Duration {
	if q.TimesCorrect == 0 {
		return 0
	}
	return q.ResponseTime / time.Duration(q.TimesCorrect)
}

// SessionStats captures the running totals of a drill session.
type SessionStats struct {
	Correct                    int
	Incorrect                  int
	Total                      int
	Hits                       int
	Misses                     int
	TotalResponseTimeSeconds   float64
	AverageResponseTimeSeconds float64
	AccuracyPercent            float64
}

// Attempt is a single guess or pick recorded in the journal.
type Attempt struct {
	SessionID uuid.UUID
	Seq       int
	At        time.Time
	String    int
	Fret      int
	Target    note.PitchClass
	Correct   bool
	Resolved  bool
	Latency   time.Duration
}

// NoteAggregate summarizes journal attempts for one target note.
type NoteAggregate struct {
	Note         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionSummary describes a journaled session.
type SessionSummary struct {
	ID        uuid.UUID
	Drill     DrillKind
	StartedAt time.Time
	EndedAt   time.Time
	Attempts  int
}
