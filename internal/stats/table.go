package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// align controls how a column pads its cells.
type align int

const (
	alignLeft align = iota
	alignRight
	// alignNote left-aligns note names and reserves a column for the
	// accidental, so naturals and sharps share one letter column whether or
	// not a sharp appears in the data.
	alignNote
)

const noteCellWidth = 2

func formatTable(headers []string, rows [][]string, aligns []align) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i := range widths {
		if alignOf(aligns, i) == alignNote {
			widths[i] = noteCellWidth
		}
	}
	for i, header := range headers {
		if w := displayWidth(header); w > widths[i] {
			widths[i] = w
		}
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, aligns))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, aligns))
	}
	return lines
}

func formatRow(row []string, widths []int, aligns []align) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], alignOf(aligns, i)))
	}
	return b.String()
}

func alignOf(aligns []align, col int) align {
	if col < len(aligns) {
		return aligns[col]
	}
	return alignLeft
}

func padCell(value string, width int, a align) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := strings.Repeat(" ", width-valueWidth)
	if a == alignRight {
		return padding + value
	}
	return value + padding
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
