package output

import (
	"bytes"
	"encoding/json"
)

// jsonOutput is the envelope written by JSONFormatter.
type jsonOutput struct {
	Kind   string `json:"kind"`
	Result any    `json:"result"`
}

// JSONFormatter formats the report payload as a single indented JSON
// document.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonOutput{Kind: r.Kind, Result: r.Data})
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
