package output

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

// TemplateFormatter renders a Report through a user-supplied text/template.
// The template sees the whole Report; .Data holds the structured payload
// of the result, e.g. .Data.Programs or .Data.BytesFreed.
type TemplateFormatter struct {
	tmpl *template.Template
	err  error
}

// NewTemplateFormatter parses text once. A parse error is reported by
// Format so it surfaces with the report kind attached.
func NewTemplateFormatter(text string) *TemplateFormatter {
	tmpl, err := template.New("output").Funcs(templateFuncs).Parse(text)
	return &TemplateFormatter{tmpl: tmpl, err: err}
}

var templateFuncs = template.FuncMap{
	// {{date .LastAccess "2006-01-02"}}; zero times print nothing.
	"date": func(t time.Time, layout string) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(layout)
	},
	// {{ago .LastAccess}}
	"ago": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return humanize.Time(t)
	},
	// {{bytes .BytesFreed}}
	"bytes": types.FormatSize,
	// {{percent .CPUPercent}}
	"percent": types.FormatPercent,
	"join":    strings.Join,
}

// Format executes the template against r.
func (f *TemplateFormatter) Format(w *bytes.Buffer, r *Report) error {
	if f.err != nil {
		return f.err
	}
	return f.tmpl.Execute(w, r)
}

// rowsTemplate prints rows tab-separated without a header, for piping
// into cut or awk.
const rowsTemplate = `{{range .Rows}}{{join . "\t"}}
{{end}}`

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter(rowsTemplate)
	})
}
