package output

import (
	"bytes"
	"encoding/csv"
	"strings"
)

// CSVFormatter formats output as comma-separated values with proper quoting.
// It uses encoding/csv for RFC 4180 compliant output.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(r.Columns); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

// Ensure CSVFormatter implements Formatter.
var _ Formatter = (*CSVFormatter)(nil)

// MarkdownFormatter formats output as a GitHub-flavored Markdown table
// under a level-two heading.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, r *Report) error {
	if r.Title != "" {
		w.WriteString("## " + r.Title + "\n\n")
	}

	w.WriteString(markdownRow(r.Columns))
	sep := make([]string, len(r.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	w.WriteString("|" + strings.Join(sep, "|") + "|\n")

	for _, row := range r.Rows {
		w.WriteString(markdownRow(row))
	}

	if len(r.Warnings) > 0 {
		w.WriteString("\n")
		for _, warning := range r.Warnings {
			w.WriteString("- " + escapeMarkdownPipe(warning) + "\n")
		}
	}
	return nil
}

func markdownRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = escapeMarkdownPipe(c)
	}
	return "| " + strings.Join(escaped, " | ") + " |\n"
}

// escapeMarkdownPipe escapes pipe characters in a string for Markdown tables.
func escapeMarkdownPipe(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

// Ensure MarkdownFormatter implements Formatter.
var _ Formatter = (*MarkdownFormatter)(nil)
