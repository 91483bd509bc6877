package stats

import (
	"os"

	"golang.org/x/term"
)

const (
	minSparklineWidth   = 10
	sparklineMargin     = 2
	terminalWidthBackup = 80
)

// SparklineWidthFor returns the sparkline width that fits totalWidth columns
// including its brackets.
func SparklineWidthFor(totalWidth int) int {
	width := totalWidth - sparklineMargin
	if width < minSparklineWidth {
		return minSparklineWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
