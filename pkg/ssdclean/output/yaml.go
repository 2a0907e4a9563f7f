package output

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// yamlOutput is the envelope written by YAMLFormatter.
type yamlOutput struct {
	Kind   string `yaml:"kind"`
	Result any    `yaml:"result"`
}

// YAMLFormatter formats output as YAML with the same structure as
// JSONFormatter.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(yamlOutput{Kind: r.Kind, Result: r.Data}); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
