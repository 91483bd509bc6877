// Package drill runs fretboard quiz sessions: lifecycle, answer checking and
// running statistics.
package drill

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/fretdrill/internal/fretboard"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/selector"
	"github.com/verte-zerg/fretdrill/internal/stats"
	"github.com/verte-zerg/fretdrill/internal/timer"
)

// Session is the surface shared by every drill variant.
type Session interface {
	ID() uuid.UUID
	Kind() model.DrillKind
	State() State
	Start()
	Pause()
	Resume()
	Quit()
	Elapsed() time.Duration
	Stats() model.SessionStats
	AllItems() []model.QuizItem
}

// Recorder receives the attempt journal of a session.
type Recorder interface {
	BeginSession(ctx context.Context, summary model.SessionSummary) error
	RecordAttempt(ctx context.Context, attempt model.Attempt) error
	EndSession(ctx context.Context, id uuid.UUID, endedAt time.Time) error
}

// Option customizes session construction.
type Option func(*deps)

type deps struct {
	selector *selector.Selector
	clock    func() time.Time
	rnd      *rand.Rand
	recorder Recorder
}

// WithSelector replaces the item selector.
func WithSelector(sel *selector.Selector) Option {
	return func(d *deps) { d.selector = sel }
}

// WithClock replaces the wall clock used for timing.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.clock = now }
}

// WithRand sets the source used to shuffle target notes.
func WithRand(rnd *rand.Rand) Option {
	return func(d *deps) { d.rnd = rnd }
}

// WithRecorder journals every attempt to rec.
func WithRecorder(rec Recorder) Option {
	return func(d *deps) { d.recorder = rec }
}

// New builds the session variant named by cfg.Drill.
func New(cfg model.Config, opts ...Option) (Session, error) {
	switch cfg.Drill {
	case model.DrillFindAll:
		s, err := NewFindSession(cfg, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	case model.DrillNameNote, "":
		s, err := NewNameSession(cfg, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, &fretboard.ConfigError{Field: "drill", Reason: "unknown drill " + string(cfg.Drill)}
	}
}

func resolveDeps(cfg model.Config, opts []Option) deps {
	d := deps{}
	for _, opt := range opts {
		opt(&d)
	}
	if d.clock == nil {
		d.clock = time.Now
	}
	if d.rnd == nil {
		d.rnd = rand.New(rand.NewSource(d.clock().UnixNano()))
	}
	if d.selector == nil {
		selOpts := []selector.Option{
			selector.WithThreshold(cfg.FastThreshold),
			selector.WithLogger(cfg.Logger),
		}
		if cfg.FocusWeak {
			selOpts = append(selOpts, selector.WithWeigher(stats.ItemWeigher(cfg.WeakFactor)))
		}
		d.selector = selector.NewWithSource(rand.NewSource(d.rnd.Int63()), selOpts...)
	}
	return d
}

func boundsOf(cfg model.Config) fretboard.Bounds {
	return fretboard.Bounds{
		MinString: cfg.MinString,
		MaxString: cfg.MaxString,
		MinFret:   cfg.MinFret,
		MaxFret:   cfg.MaxFret,
	}
}

// lifecycle implements the state machine shared by all drills.
type lifecycle struct {
	id       uuid.UUID
	kind     model.DrillKind
	state    State
	timer    *timer.Timer
	clock    func() time.Time
	recorder Recorder
	logger   *slog.Logger
	seq      int
}

func newLifecycle(kind model.DrillKind, cfg model.Config, d deps) lifecycle {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return lifecycle{
		id:       uuid.New(),
		kind:     kind,
		state:    Ready,
		timer:    timer.NewWithClock(d.clock),
		clock:    d.clock,
		recorder: d.recorder,
		logger:   logger.With("session", kind),
	}
}

// ID returns the journal identifier of the session.
func (l *lifecycle) ID() uuid.UUID { return l.id }

// Kind returns the drill variant.
func (l *lifecycle) Kind() model.DrillKind { return l.kind }

// State returns the current lifecycle state.
func (l *lifecycle) State() State { return l.state }

// Elapsed returns playing time, excluding pauses.
func (l *lifecycle) Elapsed() time.Duration { return l.timer.Elapsed() }

func (l *lifecycle) require(op string, allowed ...State) {
	for _, st := range allowed {
		if l.state == st {
			return
		}
	}
	violate(op, l.state)
}

func (l *lifecycle) begin() {
	l.require("start", Ready)
	l.timer.Start()
	l.state = Playing
	if l.recorder != nil {
		err := l.recorder.BeginSession(context.Background(), model.SessionSummary{
			ID:        l.id,
			Drill:     l.kind,
			StartedAt: l.clock(),
		})
		if err != nil {
			l.logger.Warn("failed to journal session start", "err", err)
		}
	}
	l.logger.Debug("session started")
}

// Pause freezes the session. Legal only while playing.
func (l *lifecycle) Pause() {
	l.require("pause", Playing)
	l.timer.Pause()
	l.state = Paused
	l.logger.Debug("session paused", "elapsed", l.timer.Elapsed())
}

// Resume continues a paused session.
func (l *lifecycle) Resume() {
	l.require("resume", Paused)
	l.timer.Resume()
	l.state = Playing
	l.logger.Debug("session resumed")
}

// Quit ends the session permanently.
func (l *lifecycle) Quit() {
	l.require("quit", Playing, Paused)
	l.timer.Stop()
	l.state = Finished
	if l.recorder != nil {
		if err := l.recorder.EndSession(context.Background(), l.id, l.clock()); err != nil {
			l.logger.Warn("failed to journal session end", "err", err)
		}
	}
	l.logger.Debug("session finished", "elapsed", l.timer.Elapsed())
}

func (l *lifecycle) record(a model.Attempt) {
	if l.recorder == nil {
		return
	}
	l.seq++
	a.SessionID = l.id
	a.Seq = l.seq
	a.At = l.clock()
	if err := l.recorder.RecordAttempt(context.Background(), a); err != nil {
		l.logger.Warn("failed to journal attempt", "seq", a.Seq, "err", err)
	}
}

func copyItems(items []model.QuizItem) []model.QuizItem {
	return append([]model.QuizItem(nil), items...)
}
