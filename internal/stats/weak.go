package stats

import (
	"math"
	"sort"
	"time"

	"github.com/verte-zerg/fretdrill/internal/model"
)

// slowResponse is the response time treated as fully slow when weighting.
const slowResponse = 5 * time.Second

// ItemProbability scores how much an item needs practice, from 0 to 1. It
// averages three signals: how rarely it was shown, how slowly it was
// answered and how often it was missed. Unseen items score 1.
func ItemProbability(item model.QuizItem) float64 {
	attempt := 1.0
	miss := 1.0
	if item.TimesSelected > 0 {
		attempt = 1.0 / float64(item.TimesSelected)
		miss = math.Min(1, float64(item.TimesWrong)/float64(item.TimesSelected))
	}
	response := 1.0
	if item.TimesCorrect > 0 {
		response = math.Min(1, item.AverageResponse().Seconds()/slowResponse.Seconds())
	}
	return (attempt + response + miss) / 3
}

// ItemWeigher returns a selection weight of 1 + factor*ItemProbability.
func ItemWeigher(factor float64) func(model.QuizItem) float64 {
	if factor < 0 {
		factor = 0
	}
	return func(item model.QuizItem) float64 {
		return 1 + factor*ItemProbability(item)
	}
}

// SelectWeakNotes returns the lowest-accuracy notes from aggregates.
func SelectWeakNotes(aggs []model.NoteAggregate, top int) []string {
	if len(aggs) == 0 {
		return nil
	}
	candidates := make([]model.NoteAggregate, len(aggs))
	copy(candidates, aggs)
	sort.Slice(candidates, func(i, j int) bool {
		ai := accuracy(candidates[i])
		aj := accuracy(candidates[j])
		if ai == aj {
			return candidates[i].Note < candidates[j].Note
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]string, 0, top)
	for i := 0; i < top; i++ {
		if accuracy(candidates[i]) >= 1 {
			break
		}
		out = append(out, candidates[i].Note)
	}
	return out
}

func accuracy(agg model.NoteAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
