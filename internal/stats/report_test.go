package stats

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/note"
	"github.com/verte-zerg/fretdrill/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	id := uuid.New()
	if err := st.BeginSession(ctx, model.SessionSummary{ID: id, Drill: model.DrillNameNote, StartedAt: time.Unix(0, 0)}); err != nil {
		t.Fatalf("begin session: %v", err)
	}
	attempts := []model.Attempt{
		{Target: note.B, Correct: false, Latency: 700 * time.Millisecond},
		{Target: note.B, Correct: true, Resolved: true, Latency: 4 * time.Second},
		{Target: note.C, Correct: true, Resolved: true, Latency: time.Second},
		{Target: note.D, Correct: true, Resolved: true, Latency: 2 * time.Second},
	}
	for i, a := range attempts {
		a.SessionID = id
		a.Seq = i + 1
		if err := st.RecordAttempt(ctx, a); err != nil {
			t.Fatalf("record attempt: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, id)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.NoteAggs) != 3 {
		t.Fatalf("expected 3 note aggregates, got %d", len(report.NoteAggs))
	}
	if len(report.ResponseTimes) != 3 {
		t.Fatalf("expected 3 response times, got %d", len(report.ResponseTimes))
	}
	if len(report.WeakNotes) != 1 || report.WeakNotes[0] != "B" {
		t.Fatalf("unexpected weak notes: %v", report.WeakNotes)
	}
	if len(report.SlowNotes) != 3 || report.SlowNotes[0] != "B" || report.SlowNotes[2] != "C" {
		t.Fatalf("unexpected slow notes: %v", report.SlowNotes)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, 20); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Per-Note", "Practice next: B", "Slowest: B, D, C", "Response time (s)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestBuildReportUnknownSession(t *testing.T) {
	st, err := store.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	report, err := BuildReport(context.Background(), st, uuid.New())
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	var buf bytes.Buffer
	if err := report.Render(&buf, 20); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No note stats found.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
