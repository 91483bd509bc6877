package drill

import (
	"time"

	"github.com/verte-zerg/fretdrill/internal/fretboard"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/note"
	"github.com/verte-zerg/fretdrill/internal/selector"
)

// NameSession shows one natural-note position at a time and asks the player
// to name it.
type NameSession struct {
	lifecycle

	items    []model.QuizItem
	active   *selector.ActiveSet
	selector *selector.Selector

	current   int
	itemStart time.Duration
	failed    bool
	tally     tally
}

var _ Session = (*NameSession)(nil)

// NewNameSession builds a name-the-note session over the natural notes in
// the configured bounds.
func NewNameSession(cfg model.Config, opts ...Option) (*NameSession, error) {
	items, err := fretboard.BuildPool(cfg.Tuning, boundsOf(cfg), true)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &fretboard.ConfigError{Field: "bounds", Reason: "no natural notes in range"}
	}
	d := resolveDeps(cfg, opts)
	return &NameSession{
		lifecycle: newLifecycle(model.DrillNameNote, cfg, d),
		items:     items,
		active:    selector.NewActiveSet(len(items)),
		selector:  d.selector,
		current:   selector.None,
	}, nil
}

// Start begins the session and presents the first item.
func (s *NameSession) Start() {
	s.begin()
	s.present(selector.None, 0)
}

// SubmitAnswer checks guess against the current item. A correct guess moves
// on to the next item; an incorrect one leaves the item in place.
func (s *NameSession) SubmitAnswer(guess note.PitchClass) Result {
	s.require("submit answer", Playing)
	if !guess.Valid() {
		violate("submit answer "+guess.String(), s.state)
	}
	elapsed := s.timer.Elapsed() - s.itemStart
	item := &s.items[s.current]

	if guess != item.Note {
		if !s.failed {
			s.failed = true
			s.tally.fail()
			item.TimesWrong++
		}
		s.record(model.Attempt{String: item.String, Fret: item.Fret, Target: item.Note, Latency: elapsed})
		return Incorrect
	}

	item.TimesCorrect++
	item.ResponseTime += elapsed
	s.tally.resolve(elapsed, !s.failed)
	s.record(model.Attempt{String: item.String, Fret: item.Fret, Target: item.Note, Correct: true, Resolved: true, Latency: elapsed})
	s.present(s.current, elapsed)
	return Correct
}

func (s *NameSession) present(prev int, prevElapsed time.Duration) {
	s.current = s.selector.ChooseNext(s.items, s.active, prev, prevElapsed)
	s.itemStart = s.timer.Elapsed()
	s.failed = false
}

// CurrentItem returns the item on display. ok is false before Start.
func (s *NameSession) CurrentItem() (model.QuizItem, bool) {
	if s.current == selector.None {
		return model.QuizItem{}, false
	}
	return s.items[s.current], true
}

// CurrentIndex returns the pool index of the item on display, or -1.
func (s *NameSession) CurrentIndex() int {
	return s.current
}

// ItemElapsed returns how long the current item has been on display.
func (s *NameSession) ItemElapsed() time.Duration {
	if s.current == selector.None {
		return 0
	}
	return s.timer.Elapsed() - s.itemStart
}

// AllItems returns a copy of the pool in build order.
func (s *NameSession) AllItems() []model.QuizItem {
	return copyItems(s.items)
}

// ActiveIndices returns the pool indices still eligible for selection.
func (s *NameSession) ActiveIndices() []int {
	return s.active.Indices()
}

// Stats returns a snapshot of the running statistics.
func (s *NameSession) Stats() model.SessionStats {
	return s.tally.snapshot()
}
