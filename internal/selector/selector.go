// Package selector picks the next quiz item for a drill.
package selector

import (
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/verte-zerg/fretdrill/internal/model"
)

const (
	// DefaultFastThreshold is the response time at or under which an item
	// counts as mastered and leaves the active set.
	DefaultFastThreshold = 2 * time.Second
	// MinActive is the active set size at which it is refilled from the pool.
	MinActive = 2
)

// None marks the absence of a previous item.
const None = -1

// Weigher scores an item for weighted draws. Weights must be positive.
type Weigher func(model.QuizItem) float64

// ActiveSet holds the pool indices still eligible for selection.
type ActiveSet struct {
	indices []int
}

// NewActiveSet returns a set covering pool indices 0..size-1.
func NewActiveSet(size int) *ActiveSet {
	a := &ActiveSet{}
	a.Reset(size)
	return a
}

// Reset refills the set with every pool index.
func (a *ActiveSet) Reset(size int) {
	a.indices = a.indices[:0]
	for i := 0; i < size; i++ {
		a.indices = append(a.indices, i)
	}
}

// Remove drops idx from the set. It reports whether idx was present.
func (a *ActiveSet) Remove(idx int) bool {
	pos := slices.Index(a.indices, idx)
	if pos < 0 {
		return false
	}
	a.indices = slices.Delete(a.indices, pos, pos+1)
	return true
}

// Contains reports whether idx is eligible.
func (a *ActiveSet) Contains(idx int) bool {
	return slices.Contains(a.indices, idx)
}

// Len returns the number of eligible indices.
func (a *ActiveSet) Len() int {
	return len(a.indices)
}

// Indices returns a copy of the eligible indices.
func (a *ActiveSet) Indices() []int {
	return slices.Clone(a.indices)
}

// Selector chooses items at random from an active set.
type Selector struct {
	rnd       *rand.Rand
	threshold time.Duration
	weigh     Weigher
	logger    *slog.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithThreshold overrides the mastery threshold.
func WithThreshold(d time.Duration) Option {
	return func(s *Selector) {
		if d > 0 {
			s.threshold = d
		}
	}
}

// WithWeigher switches from uniform to weighted draws.
func WithWeigher(w Weigher) Option {
	return func(s *Selector) { s.weigh = w }
}

// WithLogger sets the logger used for mastery and reset events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewWithSource returns a Selector drawing from src.
func NewWithSource(src rand.Source, opts ...Option) *Selector {
	s := &Selector{
		rnd:       rand.New(src),
		threshold: DefaultFastThreshold,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Threshold returns the mastery threshold in use.
func (s *Selector) Threshold() time.Duration {
	return s.threshold
}

// ChooseNext retires prev when its answer time, truncated to whole seconds,
// is within the threshold. It then draws a new index from active that
// differs from prev and bumps its selection counter. A single remaining index is returned even if it repeats prev.
// It returns None only when the pool is empty.
func (s *Selector) ChooseNext(items []model.QuizItem, active *ActiveSet, prev int, prevElapsed time.Duration) int {
	if len(items) == 0 {
		return None
	}
	if prev != None && prevElapsed.Truncate(time.Second) <= s.threshold {
		if active.Remove(prev) {
			s.logger.Debug("selector: item mastered",
				"index", prev,
				"string", items[prev].String,
				"fret", items[prev].Fret,
				"note", items[prev].Note.String(),
				"elapsed", prevElapsed,
			)
		}
		if active.Len() <= MinActive {
			s.logger.Debug("selector: active set reset", "size", len(items))
			active.Reset(len(items))
		}
	}
	if active.Len() == 0 {
		active.Reset(len(items))
	}

	candidates := active.indices
	if len(candidates) > 1 && prev != None {
		candidates = make([]int, 0, len(active.indices))
		for _, idx := range active.indices {
			if idx != prev {
				candidates = append(candidates, idx)
			}
		}
	}

	next := s.draw(items, candidates)
	items[next].TimesSelected++
	return next
}

func (s *Selector) draw(items []model.QuizItem, candidates []int) int {
	if s.weigh == nil || len(candidates) == 1 {
		return candidates[s.rnd.Intn(len(candidates))]
	}
	weights := make([]float64, len(candidates))
	total := 0.0
	for i, idx := range candidates {
		w := s.weigh(items[idx])
		if w <= 0 {
			w = 1e-9
		}
		weights[i] = w
		total += w
	}
	r := s.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}
