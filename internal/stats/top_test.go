package stats

import (
	"testing"

	"github.com/verte-zerg/fretdrill/internal/model"
)

func TestSlowestNotes(t *testing.T) {
	aggs := []model.NoteAggregate{
		{Note: "B", LatencySumMs: 3000, LatencyCount: 1},
		{Note: "A", LatencySumMs: 3000, LatencyCount: 1},
		{Note: "C", LatencySumMs: 1000, LatencyCount: 2},
		{Note: "D", Incorrect: 4},
	}
	top := SlowestNotes(aggs, 5)
	if len(top) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(top))
	}
	if top[0] != "A" || top[1] != "B" || top[2] != "C" {
		t.Fatalf("unexpected order: %v", top)
	}
}
