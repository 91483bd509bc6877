package stats

import (
	"sort"

	"github.com/verte-zerg/fretdrill/internal/model"
)

// SlowestNotes returns up to n notes ordered by highest mean response time.
// Notes never resolved are skipped.
func SlowestNotes(aggs []model.NoteAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	type item struct {
		note    string
		latency float64
	}
	items := make([]item, 0, len(aggs))
	for _, agg := range aggs {
		if agg.LatencyCount == 0 {
			continue
		}
		items = append(items, item{
			note:    agg.Note,
			latency: meanLatency(agg),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].latency == items[j].latency {
			return items[i].note < items[j].note
		}
		return items[i].latency > items[j].latency
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].note)
	}
	return out
}
