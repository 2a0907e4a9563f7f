package tui

import (
	"math"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name  string
		data  []float64
		width int
		want  string
	}{
		{"empty series is blank", nil, 4, "    "},
		{"short series left padded", []float64{0, 100}, 4, "  ▁█"},
		{"fixed scale", []float64{0, 50, 100}, 3, "▁▅█"},
		{"newest points kept", []float64{100, 100, 0, 0}, 2, "▁▁"},
		{"out of range clamped", []float64{-5, 150, math.NaN()}, 3, "▁█▁"},
		{"zero width", []float64{10}, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSparkline(tt.data, tt.width)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.width, utf8.RuneCountInString(got))
		})
	}
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", renderBar(50, 10))
	assert.Equal(t, "░░░░", renderBar(-1, 4))
	assert.Equal(t, "████", renderBar(140, 4))
	assert.Equal(t, "", renderBar(50, 0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "long na...", truncate("long name here", 10))
	assert.Equal(t, `...\Editor`, truncatePath(`C:\Program Files\Editor`, 10))
}
