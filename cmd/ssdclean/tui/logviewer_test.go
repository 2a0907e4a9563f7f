package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
)

func TestFilterEntriesByLevel(t *testing.T) {
	entries := []logging.LogEntry{
		{Level: logging.LevelDebug, Message: "d"},
		{Level: logging.LevelInfo, Message: "i"},
		{Level: logging.LevelWarn, Message: "w"},
		{Level: logging.LevelError, Message: "e"},
	}

	assert.Len(t, filterEntriesByLevel(entries, logging.LevelDebug), 4)
	got := filterEntriesByLevel(entries, logging.LevelWarn)
	assert.Equal(t, "w", got[0].Message)
	assert.Equal(t, "e", got[1].Message)
}

func TestRenderLogPanel(t *testing.T) {
	buf := logging.NewLogBuffer(10)
	at := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	for _, msg := range []string{"one", "two", "three", "four"} {
		buf.Add(logging.LogEntry{Time: at, Level: logging.LevelInfo, Component: "cleaner", Message: msg})
	}
	buf.Add(logging.LogEntry{Time: at, Level: logging.LevelDebug, Component: "monitor", Message: "hidden"})

	out := renderLogPanel(buf, logging.LevelInfo, 80, 3)
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Logs [info]")
	assert.Contains(t, lines[1], "three")
	assert.Contains(t, lines[2], "[I]")
	assert.Contains(t, lines[2], "four")
	assert.NotContains(t, out, "hidden")
}

func TestRenderLogPanel_NoBuffer(t *testing.T) {
	assert.Contains(t, renderLogPanel(nil, logging.LevelInfo, 80, 5), "logging unavailable")
	assert.Empty(t, renderLogPanel(nil, logging.LevelInfo, 80, 1))
}

func TestLogLevelChar(t *testing.T) {
	assert.Equal(t, "D", logLevelChar(logging.LevelDebug))
	assert.Equal(t, "E", logLevelChar(logging.LevelError))
	assert.Equal(t, "?", logLevelChar(logging.Level(42)))
}
