package stats

import (
	"math"
	"testing"
	"time"

	"github.com/verte-zerg/fretdrill/internal/model"
)

func TestItemProbabilityUnseen(t *testing.T) {
	if p := ItemProbability(model.QuizItem{}); p != 1 {
		t.Fatalf("expected unseen item to score 1, got %v", p)
	}
}

func TestItemProbabilityPracticed(t *testing.T) {
	item := model.QuizItem{
		TimesSelected: 4,
		TimesWrong:    1,
		TimesCorrect:  4,
		ResponseTime:  4 * time.Second,
	}
	// attempt 0.25, response 1s/5s = 0.2, miss 0.25
	want := (0.25 + 0.2 + 0.25) / 3
	if p := ItemProbability(item); math.Abs(p-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, p)
	}
}

func TestItemProbabilityCapsSlowResponse(t *testing.T) {
	item := model.QuizItem{TimesSelected: 1, TimesCorrect: 1, ResponseTime: time.Minute}
	want := (1.0 + 1.0 + 0.0) / 3
	if p := ItemProbability(item); math.Abs(p-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, p)
	}
}

func TestItemWeigher(t *testing.T) {
	weigh := ItemWeigher(2)
	if w := weigh(model.QuizItem{}); w != 3 {
		t.Fatalf("expected weight 3 for unseen item, got %v", w)
	}
	flat := ItemWeigher(-1)
	if w := flat(model.QuizItem{}); w != 1 {
		t.Fatalf("expected negative factor to clamp to 0, got %v", w)
	}
}

func TestSelectWeakNotes(t *testing.T) {
	aggs := []model.NoteAggregate{
		{Note: "A", Correct: 10, Incorrect: 0},
		{Note: "B", Correct: 1, Incorrect: 3},
		{Note: "C", Correct: 2, Incorrect: 2},
		{Note: "D", Correct: 3, Incorrect: 1},
	}
	got := SelectWeakNotes(aggs, 2)
	if len(got) != 2 || got[0] != "B" || got[1] != "C" {
		t.Fatalf("unexpected weak notes: %v", got)
	}
	all := SelectWeakNotes(aggs, 0)
	if len(all) != 3 {
		t.Fatalf("expected perfect notes to be skipped, got %v", all)
	}
}
