package selector_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/fretdrill/internal/fretboard"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/note"
	"github.com/verte-zerg/fretdrill/internal/selector"
)

func newPool(t *testing.T) []model.QuizItem {
	t.Helper()
	items, err := fretboard.BuildPool(fretboard.StandardTuning, fretboard.DefaultBounds, true)
	require.NoError(t, err)
	return items
}

func TestChooseNextNeverRepeats(t *testing.T) {
	items := newPool(t)
	active := selector.NewActiveSet(len(items))
	sel := selector.NewWithSource(rand.NewSource(1))

	prev := selector.None
	for i := 0; i < 2000; i++ {
		next := sel.ChooseNext(items, active, prev, 5*time.Second)
		require.NotEqual(t, prev, next)
		require.True(t, active.Contains(next))
		prev = next
	}
	require.Equal(t, len(items), active.Len(), "slow answers never retire items")
}

func TestChooseNextRetiresFastAnswers(t *testing.T) {
	items := newPool(t)
	active := selector.NewActiveSet(len(items))
	sel := selector.NewWithSource(rand.NewSource(7))

	first := sel.ChooseNext(items, active, selector.None, 0)
	second := sel.ChooseNext(items, active, first, 2*time.Second)
	require.False(t, active.Contains(first))
	require.Equal(t, len(items)-1, active.Len())

	third := sel.ChooseNext(items, active, second, 2500*time.Millisecond)
	require.False(t, active.Contains(second), "answer times count in whole seconds")
	require.Equal(t, len(items)-2, active.Len())

	fourth := sel.ChooseNext(items, active, third, 3*time.Second)
	require.True(t, active.Contains(third), "answers over the threshold stay active")
	require.NotEqual(t, third, fourth)
}

func TestChooseNextResetsBeforeShrinkingBelowMinimum(t *testing.T) {
	items := newPool(t)
	active := selector.NewActiveSet(len(items))
	sel := selector.NewWithSource(rand.NewSource(3))

	resets := 0
	prev := selector.None
	for i := 0; i < 500; i++ {
		before := active.Len()
		prev = sel.ChooseNext(items, active, prev, time.Second)
		after := active.Len()
		require.Greater(t, after, selector.MinActive)
		if after > before {
			resets++
			require.Equal(t, len(items), after)
		}
	}
	require.Positive(t, resets)
}

func TestChooseNextCountsSelections(t *testing.T) {
	items := newPool(t)
	active := selector.NewActiveSet(len(items))
	sel := selector.NewWithSource(rand.NewSource(11))

	prev := selector.None
	for i := 0; i < 100; i++ {
		prev = sel.ChooseNext(items, active, prev, 10*time.Second)
	}
	total := 0
	for _, item := range items {
		total += item.TimesSelected
	}
	require.Equal(t, 100, total)
}

func TestChooseNextSingleItemWaivesRepeat(t *testing.T) {
	items := []model.QuizItem{{String: 0, Fret: 0, Note: note.E}}
	active := selector.NewActiveSet(1)
	sel := selector.NewWithSource(rand.NewSource(5))

	first := sel.ChooseNext(items, active, selector.None, 0)
	require.Equal(t, 0, first)
	second := sel.ChooseNext(items, active, first, time.Second)
	require.Equal(t, 0, second)
	require.Equal(t, 1, active.Len())
	require.Equal(t, 2, items[0].TimesSelected)
}

func TestChooseNextTwoItemsAlternate(t *testing.T) {
	items := []model.QuizItem{{Note: note.E}, {Fret: 1, Note: note.F}}
	active := selector.NewActiveSet(2)
	sel := selector.NewWithSource(rand.NewSource(9))

	prev := sel.ChooseNext(items, active, selector.None, 0)
	for i := 0; i < 20; i++ {
		next := sel.ChooseNext(items, active, prev, time.Second)
		require.Equal(t, 1-prev, next)
		prev = next
	}
}

func TestChooseNextEmptyPool(t *testing.T) {
	sel := selector.NewWithSource(rand.NewSource(1))
	require.Equal(t, selector.None, sel.ChooseNext(nil, selector.NewActiveSet(0), selector.None, 0))
}

func TestChooseNextWeighted(t *testing.T) {
	items := []model.QuizItem{{Note: note.C}, {Fret: 1, Note: note.D}, {Fret: 2, Note: note.E}}
	active := selector.NewActiveSet(len(items))
	heavy := func(item model.QuizItem) float64 {
		if item.Note == note.E {
			return 1000
		}
		return 0.001
	}
	sel := selector.NewWithSource(rand.NewSource(2), selector.WithWeigher(heavy))

	hits := 0
	prev := selector.None
	for i := 0; i < 200; i++ {
		next := sel.ChooseNext(items, active, prev, time.Minute)
		require.NotEqual(t, prev, next)
		if items[next].Note == note.E {
			hits++
		}
		prev = next
	}
	// E can only be chosen every other draw, and should win almost every one.
	require.Greater(t, hits, 90)
}

func TestActiveSet(t *testing.T) {
	a := selector.NewActiveSet(4)
	require.True(t, a.Remove(2))
	require.False(t, a.Remove(2))
	require.Equal(t, []int{0, 1, 3}, a.Indices())
	a.Reset(4)
	require.Equal(t, 4, a.Len())
}
