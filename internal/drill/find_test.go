package drill_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/fretdrill/internal/drill"
	"github.com/verte-zerg/fretdrill/internal/fretboard"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/note"
)

func newFindSession(t *testing.T, clock *fakeClock) *drill.FindSession {
	t.Helper()
	s, err := drill.NewFindSession(testConfig(model.DrillFindAll),
		drill.WithClock(clock.Now),
		drill.WithRand(rand.New(rand.NewSource(5))),
	)
	require.NoError(t, err)
	return s
}

func offTarget(t *testing.T, s *drill.FindSession) fretboard.Position {
	t.Helper()
	target, _ := s.Target()
	for _, item := range s.AllItems() {
		if item.Note != target {
			return fretboard.Position{String: item.String, Fret: item.Fret}
		}
	}
	t.Fatalf("no off-target position")
	return fretboard.Position{}
}

func TestFindSessionCompletesTarget(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := newFindSession(t, clock)
	require.Len(t, s.AllItems(), 6*13)

	s.Start()
	target, ok := s.Target()
	require.True(t, ok)
	require.True(t, target.Natural())

	positions := s.TargetPositions()
	require.NotEmpty(t, positions)
	for i, pos := range positions {
		require.False(t, s.Complete())
		clock.Advance(time.Second)
		require.Equal(t, drill.Hit, s.SubmitPositionPick(pos.String, pos.Fret))
		require.Len(t, s.FoundPositions(), i+1)
	}
	require.True(t, s.Complete())
	require.Equal(t, positions, s.FoundPositions())

	st := s.Stats()
	require.Equal(t, len(positions), st.Hits)
	require.Equal(t, 1, st.Correct)
	require.Equal(t, 1, st.Total)
	require.Equal(t, float64(len(positions)), st.TotalResponseTimeSeconds)
}

func TestFindSessionRepeatPickIsMiss(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := newFindSession(t, clock)
	s.Start()
	positions := s.TargetPositions()
	first := positions[0]

	require.Equal(t, drill.Hit, s.SubmitPositionPick(first.String, first.Fret))
	before := s.FoundPositions()
	require.Equal(t, drill.Miss, s.SubmitPositionPick(first.String, first.Fret))
	require.Equal(t, before, s.FoundPositions())

	st := s.Stats()
	require.Equal(t, 1, st.Misses)
	require.Equal(t, 1, st.Incorrect)
}

func TestFindSessionWrongPositionIsMiss(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := newFindSession(t, clock)
	s.Start()

	off := offTarget(t, s)
	require.Equal(t, drill.Miss, s.SubmitPositionPick(off.String, off.Fret))
	require.Equal(t, drill.Miss, s.SubmitPositionPick(off.String, off.Fret))
	require.Equal(t, drill.Miss, s.SubmitPositionPick(42, 0))
	require.Empty(t, s.FoundPositions())

	st := s.Stats()
	require.Equal(t, 3, st.Misses)
	require.Equal(t, 1, st.Incorrect, "only the first miss per target counts")

	for _, pos := range s.TargetPositions() {
		s.SubmitPositionPick(pos.String, pos.Fret)
	}
	st = s.Stats()
	require.Equal(t, 0, st.Correct)
	require.Equal(t, 1, st.Total)
	require.Equal(t, 0.0, st.AccuracyPercent)
}

func TestFindSessionAdvanceCyclesNaturals(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := newFindSession(t, clock)
	s.Start()
	require.Panics(t, s.Advance, "advance requires a complete target")

	seen := map[note.PitchClass]int{}
	var prev note.PitchClass
	for i := 0; i < 14; i++ {
		target, _ := s.Target()
		if i > 0 {
			require.NotEqual(t, prev, target)
		}
		seen[target]++
		prev = target
		for _, pos := range s.TargetPositions() {
			s.SubmitPositionPick(pos.String, pos.Fret)
		}
		s.Advance()
	}
	require.Len(t, seen, 7)
	for n, count := range seen {
		require.Equal(t, 2, count, "note %s", n)
	}
	require.Equal(t, 14, s.Stats().Total)
	require.Equal(t, 100.0, s.Stats().AccuracyPercent)
}

func TestFindSessionLifecycle(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := newFindSession(t, clock)
	require.Panics(t, func() { s.SubmitPositionPick(0, 0) })
	s.Start()
	s.Pause()
	require.Panics(t, func() { s.SubmitPositionPick(0, 0) })
	require.Panics(t, s.Advance)
	s.Resume()
	s.Quit()
	require.Equal(t, drill.Finished, s.State())
	require.Panics(t, func() { s.SubmitPositionPick(0, 0) })
}

func TestFindSessionNarrowBounds(t *testing.T) {
	cfg := testConfig(model.DrillFindAll)
	cfg.MinString, cfg.MaxString, cfg.MinFret, cfg.MaxFret = 0, 0, 0, 3
	s, err := drill.NewFindSession(cfg, drill.WithRand(rand.New(rand.NewSource(1))))
	require.NoError(t, err)
	s.Start()
	// Frets 0-2 on the high E string: E, F, F#.
	for i := 0; i < 6; i++ {
		target, _ := s.Target()
		require.Contains(t, []note.PitchClass{note.E, note.F}, target)
		require.Len(t, s.TargetPositions(), 1)
		pos := s.TargetPositions()[0]
		s.SubmitPositionPick(pos.String, pos.Fret)
		s.Advance()
	}
}
