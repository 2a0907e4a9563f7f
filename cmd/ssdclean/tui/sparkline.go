package tui

import (
	"math"
	"strings"
)

// sparkBlocks are the eight block characters used for sparklines, lowest
// first.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// renderSparkline draws percentages in [0, 100] as a fixed-scale sparkline
// of exactly width cells. Only the newest width points are shown; a short
// series is left-padded with spaces.
func renderSparkline(data []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	runes := make([]rune, 0, width)
	for i := len(data); i < width; i++ {
		runes = append(runes, ' ')
	}
	for _, v := range data {
		if math.IsNaN(v) {
			v = 0
		}
		normalized := math.Max(0, math.Min(1, v/100))
		idx := int(math.Round(normalized * float64(len(sparkBlocks)-1)))
		runes = append(runes, sparkBlocks[idx])
	}
	return string(runes)
}

// renderBar draws a plain text gauge, used when the terminal is too
// narrow for the progress widget.
func renderBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(math.Max(0, math.Min(100, percent)) / 100 * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
