package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/output"
)

// Flag variables for individual commands.
var (
	inactiveDays int
	matchPattern string
	assumeYes    bool
	dryRun       bool
	sampleWait   string
)

// newFormatter returns the formatter selected by -o. The template format
// requires --template.
func newFormatter() (output.Formatter, error) {
	name := viper.GetString("output")
	if name == "" {
		name = "pretty"
	}

	if name == "template" {
		tmpl := viper.GetString("template")
		if tmpl == "" {
			return nil, fmt.Errorf("--template is required when using -o template")
		}
		return output.NewTemplateFormatter(tmpl), nil
	}

	f, err := output.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown output format %q: available formats are %v", name, output.Available())
	}
	return f, nil
}

// writeReport formats r with the selected formatter and writes it to w.
func writeReport(w io.Writer, r *output.Report) error {
	f, err := newFormatter()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := f.Format(&buf, r); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// confirm asks a yes/no question on out and reads the answer from in.
// Anything other than y or yes is a no.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// confirmed reports whether a destructive command may proceed, prompting
// on stdin unless --yes was given.
func confirmed(prompt string) bool {
	if assumeYes {
		return true
	}
	return confirm(os.Stdin, os.Stderr, prompt)
}
