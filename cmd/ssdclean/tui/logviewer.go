package tui

import (
	"fmt"
	"strings"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
)

// filterEntriesByLevel returns entries at or above the specified level.
func filterEntriesByLevel(entries []logging.LogEntry, minLevel logging.Level) []logging.LogEntry {
	result := make([]logging.LogEntry, 0, len(entries))
	for _, e := range entries {
		if e.Level >= minLevel {
			result = append(result, e)
		}
	}
	return result
}

// logLevelChar returns a single character for the log level.
func logLevelChar(level logging.Level) string {
	switch level {
	case logging.LevelDebug:
		return "D"
	case logging.LevelInfo:
		return "I"
	case logging.LevelWarn:
		return "W"
	case logging.LevelError:
		return "E"
	default:
		return "?"
	}
}

func renderLogEntry(entry logging.LogEntry, width int) string {
	style := logInfoStyle
	switch entry.Level {
	case logging.LevelDebug:
		style = logDebugStyle
	case logging.LevelWarn:
		style = logWarnStyle
	case logging.LevelError:
		style = logErrorStyle
	}

	comp := truncate(entry.Component, 10)
	// HH:MM:SS [L] component: message
	prefixWidth := 8 + 1 + 3 + 1 + len([]rune(comp)) + 2
	msg := truncate(entry.Message, max(width-prefixWidth, 10))

	return fmt.Sprintf("%s %s %s: %s",
		logTimeStyle.Render(entry.Time.Format("15:04:05")),
		style.Render("["+logLevelChar(entry.Level)+"]"),
		logComponentStyle.Render(comp),
		msg)
}

// renderLogPanel renders the newest entries at or above minLevel that
// fit in height rows, including the title row.
func renderLogPanel(buf *logging.LogBuffer, minLevel logging.Level, width, height int) string {
	if height < 2 {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf(" Logs [%s] ", minLevel)))
	b.WriteString(mutedTextStyle.Render("[1-4] filter  [l] close"))
	b.WriteString("\n")

	rows := height - 1
	if buf == nil {
		b.WriteString(mutedTextStyle.Render("  logging unavailable"))
		return b.String()
	}

	var entries []logging.LogEntry
	if minLevel == logging.LevelDebug {
		entries = buf.Last(rows)
	} else {
		entries = filterEntriesByLevel(buf.Entries(), minLevel)
	}
	if len(entries) > rows {
		entries = entries[len(entries)-rows:]
	}
	if len(entries) == 0 {
		b.WriteString(mutedTextStyle.Render("  no log entries"))
		return b.String()
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = renderLogEntry(e, width)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
