package stats

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/store"
)

const (
	reportTopNotes    = 3
	reportCurveWindow = 3
)

// Report contains precomputed data for one session's stats rendering.
type Report struct {
	NoteAggs      []model.NoteAggregate
	ResponseTimes []time.Duration
	WeakNotes     []string
	SlowNotes     []string
}

// BuildReport loads and prepares the journal data of one session.
func BuildReport(ctx context.Context, st *store.Store, sessionID uuid.UUID) (Report, error) {
	aggs, err := st.NoteAggregates(ctx, sessionID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load note aggregates: %w", err)
	}
	times, err := st.ResponseTimes(ctx, sessionID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load response times: %w", err)
	}
	return Report{
		NoteAggs:      aggs,
		ResponseTimes: times,
		WeakNotes:     SelectWeakNotes(aggs, reportTopNotes),
		SlowNotes:     SlowestNotes(aggs, reportTopNotes),
	}, nil
}

// Render prints the per-note table, focus hints and response curve. A width
// of 0 fits the curve to the terminal.
func (r Report) Render(w io.Writer, width int) error {
	if err := RenderNoteTable(w, r.NoteAggs); err != nil {
		return err
	}
	if len(r.WeakNotes) > 0 {
		if _, err := fmt.Fprintf(w, "Practice next: %s\n", strings.Join(r.WeakNotes, ", ")); err != nil {
			return err
		}
	}
	if len(r.SlowNotes) > 0 {
		if _, err := fmt.Fprintf(w, "Slowest: %s\n", strings.Join(r.SlowNotes, ", ")); err != nil {
			return err
		}
	}
	if len(r.WeakNotes) > 0 || len(r.SlowNotes) > 0 {
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return RenderResponseCurve(w, r.ResponseTimes, reportCurveWindow, width)
}
