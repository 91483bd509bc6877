// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/fretdrill/internal/fretboard"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/note"
	"github.com/verte-zerg/fretdrill/internal/timer"
)

const sparkChars = " .:-=+*#%@"

// NoteRow is a display-ready per-note line.
type NoteRow struct {
	Note      string
	Accuracy  float64
	LatencyMs float64
	Correct   int
	Incorrect int
}

// NoteRows converts aggregates into rows sorted by lowest accuracy.
func NoteRows(aggs []model.NoteAggregate) []NoteRow {
	rows := make([]NoteRow, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, NoteRow{
			Note:      agg.Note,
			Accuracy:  accuracy(agg),
			LatencyMs: meanLatency(agg),
			Correct:   agg.Correct,
			Incorrect: agg.Incorrect,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Accuracy == rows[j].Accuracy {
			return rows[i].Note < rows[j].Note
		}
		return rows[i].Accuracy < rows[j].Accuracy
	})
	return rows
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the totals of a finished session.
func RenderSummary(w io.Writer, kind model.DrillKind, st model.SessionStats, elapsed time.Duration) error {
	if st.Total == 0 && st.Incorrect == 0 && st.Misses == 0 {
		_, err := fmt.Fprintln(w, "No answers recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Drill: %s\n", kind); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Time: %s\n", timer.Format(elapsed)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Correct: %d  Incorrect: %d  Total: %d\n", st.Correct, st.Incorrect, st.Total); err != nil {
		return err
	}
	if kind == model.DrillFindAll {
		if _, err := fmt.Fprintf(w, "Hits: %d  Misses: %d\n", st.Hits, st.Misses); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Accuracy: %.2f%%\n", st.AccuracyPercent); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg response: %.2fs\n", st.AverageResponseTimeSeconds); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderResponseCurve prints a smoothed sparkline of response times fitted
// to width columns. A width of 0 uses the terminal width.
func RenderResponseCurve(w io.Writer, times []time.Duration, window, width int) error {
	if len(times) == 0 {
		return nil
	}
	values := make([]float64, len(times))
	for i, d := range times {
		values[i] = d.Seconds()
	}
	values = MovingAverage(values, window)
	if width <= 0 {
		width = SparklineWidthFor(terminalWidth())
	}
	values = downsample(values, width)
	if _, err := fmt.Fprintln(w, "Response time (s)"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[%s]\n", Sparkline(values)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderNoteTable prints per-note aggregates.
func RenderNoteTable(w io.Writer, aggs []model.NoteAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No note stats found.")
		return err
	}
	rows := NoteRows(aggs)

	if _, err := fmt.Fprintln(w, "Per-Note"); err != nil {
		return err
	}

	headers := []string{"Note", "Accuracy", "Avg Response (ms)", "Correct", "Incorrect"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, FormatRow(r))
	}
	aligns := []align{alignNote, alignRight, alignRight, alignRight, alignRight}
	lines := formatTable(headers, tableRows, aligns)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// FormatRow renders a NoteRow as table cells.
func FormatRow(r NoteRow) []string {
	return []string{
		r.Note,
		fmt.Sprintf("%.2f%%", r.Accuracy*100),
		fmt.Sprintf("%.0f", r.LatencyMs),
		fmt.Sprintf("%d", r.Correct),
		fmt.Sprintf("%d", r.Incorrect),
	}
}

func meanLatency(agg model.NoteAggregate) float64 {
	if agg.LatencyCount == 0 {
		return 0
	}
	return float64(agg.LatencySumMs) / float64(agg.LatencyCount)
}

func downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// RenderNoteGrid prints the note at every position in bounds, one row per
// string.
func RenderNoteGrid(w io.Writer, tuning []note.PitchClass, b fretboard.Bounds) error {
	headers := make([]string, 0, b.Frets()+1)
	headers = append(headers, "")
	for fret := b.MinFret; fret < b.MaxFret; fret++ {
		headers = append(headers, fmt.Sprintf("%d", fret))
	}
	aligns := make([]align, 0, b.Frets()+1)
	aligns = append(aligns, alignLeft)
	for range b.Frets() {
		aligns = append(aligns, alignNote)
	}
	rows := make([][]string, 0, b.Strings())
	for s := b.MinString; s <= b.MaxString; s++ {
		row := make([]string, 0, b.Frets()+1)
		row = append(row, fmt.Sprintf("%d:%s", s+1, tuning[s]))
		for fret := b.MinFret; fret < b.MaxFret; fret++ {
			row = append(row, fretboard.NoteAt(tuning, fretboard.Position{String: s, Fret: fret}).String())
		}
		rows = append(rows, row)
	}
	for _, line := range formatTable(headers, rows, aligns) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}
