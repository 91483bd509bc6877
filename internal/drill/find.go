package drill

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/fretdrill/internal/fretboard"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/note"
)

// FindSession names a natural note and asks the player to pick every
// position where it sounds.
type FindSession struct {
	lifecycle

	items []model.QuizItem
	rnd   *rand.Rand

	targets   []note.PitchClass
	queue     []note.PitchClass
	target    note.PitchClass
	hasTarget bool
	positions map[fretboard.Position]bool
	found     int

	targetStart time.Duration
	missed      bool
	resolved    bool
	tally       tally
}

var _ Session = (*FindSession)(nil)

// NewFindSession builds a find-all-instances session over every position in
// the configured bounds.
func NewFindSession(cfg model.Config, opts ...Option) (*FindSession, error) {
	items, err := fretboard.BuildPool(cfg.Tuning, boundsOf(cfg), false)
	if err != nil {
		return nil, err
	}
	var targets []note.PitchClass
	for _, n := range note.Naturals() {
		if len(fretboard.PositionsOf(items, n)) > 0 {
			targets = append(targets, n)
		}
	}
	if len(targets) == 0 {
		return nil, &fretboard.ConfigError{Field: "bounds", Reason: "no natural notes in range"}
	}
	d := resolveDeps(cfg, opts)
	return &FindSession{
		lifecycle: newLifecycle(model.DrillFindAll, cfg, d),
		items:     items,
		rnd:       d.rnd,
		targets:   targets,
	}, nil
}

// Start begins the session and announces the first target note.
func (s *FindSession) Start() {
	s.begin()
	s.nextTarget()
}

// SubmitPositionPick marks (stringIndex, fretIndex) found when it sounds the
// target and has not been picked yet. Anything else is a miss.
func (s *FindSession) SubmitPositionPick(stringIndex, fretIndex int) Result {
	s.require("submit position", Playing)
	pos := fretboard.Position{String: stringIndex, Fret: fretIndex}
	elapsed := s.timer.Elapsed() - s.targetStart
	idx := fretboard.IndexOf(s.items, pos)

	found, ok := s.positions[pos]
	if !ok || found {
		s.tally.stats.Misses++
		if !s.missed && !s.resolved {
			s.missed = true
			s.tally.fail()
		}
		if idx >= 0 && !ok {
			s.items[idx].TimesWrong++
		}
		s.record(model.Attempt{String: stringIndex, Fret: fretIndex, Target: s.target, Latency: elapsed})
		return Miss
	}

	s.positions[pos] = true
	s.found++
	s.tally.stats.Hits++
	s.items[idx].TimesCorrect++
	s.items[idx].ResponseTime += elapsed
	complete := s.Complete()
	if complete {
		s.resolved = true
		s.tally.resolve(elapsed, !s.missed)
		s.logger.Debug("target complete", "note", s.target.String(), "elapsed", elapsed)
	}
	s.record(model.Attempt{String: stringIndex, Fret: fretIndex, Target: s.target, Correct: true, Resolved: complete, Latency: elapsed})
	return Hit
}

// Complete reports whether every position of the target has been found.
func (s *FindSession) Complete() bool {
	return s.hasTarget && s.found == len(s.positions)
}

// Advance moves to the next target note. The caller invokes it once the
// current target is complete, after any visual delay it wants.
func (s *FindSession) Advance() {
	s.require("advance", Playing)
	if !s.Complete() {
		violate("advance before target complete", s.state)
	}
	s.nextTarget()
}

func (s *FindSession) nextTarget() {
	if len(s.queue) == 0 {
		s.queue = append(s.queue[:0], s.targets...)
		s.rnd.Shuffle(len(s.queue), func(i, j int) {
			s.queue[i], s.queue[j] = s.queue[j], s.queue[i]
		})
		if s.hasTarget && len(s.queue) > 1 && s.queue[0] == s.target {
			s.queue[0], s.queue[1] = s.queue[1], s.queue[0]
		}
	}
	s.target = s.queue[0]
	s.queue = s.queue[1:]
	s.hasTarget = true

	s.positions = map[fretboard.Position]bool{}
	for _, pos := range fretboard.PositionsOf(s.items, s.target) {
		s.positions[pos] = false
		s.items[fretboard.IndexOf(s.items, pos)].TimesSelected++
	}
	s.found = 0
	s.missed = false
	s.resolved = false
	s.targetStart = s.timer.Elapsed()
	s.logger.Debug("target presented", "note", s.target.String(), "positions", len(s.positions))
}

// Target returns the note being searched for. ok is false before Start.
func (s *FindSession) Target() (note.PitchClass, bool) {
	return s.target, s.hasTarget
}

// TargetPositions returns every position of the target in pool order.
func (s *FindSession) TargetPositions() []fretboard.Position {
	if !s.hasTarget {
		return nil
	}
	return fretboard.PositionsOf(s.items, s.target)
}

// FoundPositions returns the target positions picked so far in pool order.
func (s *FindSession) FoundPositions() []fretboard.Position {
	var out []fretboard.Position
	for _, pos := range s.TargetPositions() {
		if s.positions[pos] {
			out = append(out, pos)
		}
	}
	return out
}

// IsFound reports whether pos has been picked for the current target.
func (s *FindSession) IsFound(pos fretboard.Position) bool {
	return s.positions[pos]
}

// AllItems returns a copy of every position in build order.
func (s *FindSession) AllItems() []model.QuizItem {
	return copyItems(s.items)
}

// Stats returns a snapshot of the running statistics.
func (s *FindSession) Stats() model.SessionStats {
	return s.tally.snapshot()
}
