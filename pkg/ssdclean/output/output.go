// Package output renders ssdclean results in various formats (pretty,
// plain, json, yaml, csv, markdown, template).
//
// Every command result is first converted into a Report, a tabular view
// with an attached structured payload. Formatters are registered by name
// and selected at runtime:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, output.Cleanup(result)); err != nil {
//	    return err
//	}
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
)

// Field is a labelled summary value shown above a report's table.
type Field struct {
	Label string
	Value string
}

// Report is a command result prepared for formatting.
type Report struct {
	// Kind names the result type, e.g. "programs" or "cleanup".
	Kind string

	// Title is a one-line heading for human-readable formats.
	Title string

	// Fields are summary values shown by the pretty formatter.
	Fields []Field

	// Columns and Rows form the tabular view used by the text formats.
	Columns []string
	Rows    [][]string

	// Empty is shown by the pretty formatter when there are no rows.
	Empty string

	// Warnings are non-fatal problems to surface after the table.
	Warnings []string

	// Data is the structured payload encoded by json and yaml.
	Data any
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted report to the buffer.
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry, replacing any
// existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}

// Render formats r with the named formatter and returns the text.
func Render(name string, r *Report) (string, error) {
	f, err := Get(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := f.Format(&buf, r); err != nil {
		return "", fmt.Errorf("formatting %s as %s: %w", r.Kind, name, err)
	}
	return buf.String(), nil
}
