package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatTable(r))

	if len(r.Warnings) > 0 {
		w.WriteString(f.formatWarnings(r.Warnings))
		w.WriteString("\n")
	}
	return nil
}

func (f *PrettyFormatter) formatHeader(r *Report) string {
	lines := []string{TitleStyle.Render(r.Title)}

	var parts []string
	for _, field := range r.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", LabelStyle.Render(field.Label), ValueStyle.Render(field.Value)))
	}
	if len(parts) > 0 {
		lines = append(lines, strings.Join(parts, "  "))
	}

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) formatTable(r *Report) string {
	if len(r.Rows) == 0 {
		empty := r.Empty
		if empty == "" {
			empty = "No results"
		}
		return MutedStyle.Render("  "+empty) + "\n"
	}

	widths := make([]int, len(r.Columns))
	for i, c := range r.Columns {
		widths[i] = lipgloss.Width(c)
	}
	for _, row := range r.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("  " + f.formatRow(r.Columns, widths, TableHeaderStyle) + "\n")
	for _, row := range r.Rows {
		sb.WriteString("  " + f.formatRow(row, widths, TableCellStyle) + "\n")
	}
	return sb.String()
}

func (f *PrettyFormatter) formatRow(cells []string, widths []int, style lipgloss.Style) string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		width := 0
		if i < len(widths) {
			width = widths[i]
		}
		out[i] = style.Render(padRight(cell, width))
	}
	return strings.TrimRight(strings.Join(out, "  "), " ")
}

func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	lines := []string{WarningStyle.Bold(true).Render(fmt.Sprintf("Warnings (%d):", len(warnings)))}
	for _, warning := range warnings {
		lines = append(lines, WarningStyle.Render(warning))
	}
	return WarningBox.Render(strings.Join(lines, "\n"))
}

// padRight pads s with spaces on the right to the given display width.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
