package drill

import (
	"math"
	"time"

	"github.com/verte-zerg/fretdrill/internal/model"
)

// tally accumulates session statistics. Derived values are recomputed only
// when an item is resolved.
type tally struct {
	stats model.SessionStats
}

// fail counts the first wrong attempt on an item.
func (t *tally) fail() {
	t.stats.Incorrect++
}

// resolve closes an item. clean is true when no wrong attempt preceded it.
func (t *tally) resolve(elapsed time.Duration, clean bool) {
	if clean {
		t.stats.Correct++
	}
	t.stats.Total++
	t.stats.TotalResponseTimeSeconds += elapsed.Seconds()
	t.stats.AverageResponseTimeSeconds = round2(t.stats.TotalResponseTimeSeconds / float64(t.stats.Total))
	t.stats.AccuracyPercent = accuracyPercent(t.stats.Total, t.stats.Incorrect)
}

func (t *tally) snapshot() model.SessionStats {
	return t.stats
}

func accuracyPercent(total, incorrect int) float64 {
	if total <= 0 {
		return 0
	}
	pct := 100 * float64(total-incorrect) / float64(total)
	if pct < 0 {
		pct = 0
	}
	return round2(pct)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
