package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"braces.dev/errtrace"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/message"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func parseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errtrace.Wrap(errorutil.NewInvalidArgumentError("unsupported output format %q", s))
	}
}

// HeaderField is a header with its values in the output.
type HeaderField struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

// InvalidEntry is an input line that was rejected.
type InvalidEntry struct {
	Line  int    `json:"line" yaml:"line"`
	Text  string `json:"text" yaml:"text"`
	Error string `json:"error" yaml:"error"`
}

// HeadersReport is the structured output of the parse and get commands.
type HeadersReport struct {
	Status  string         `json:"status,omitempty" yaml:"status,omitempty"`
	Headers []HeaderField  `json:"headers" yaml:"headers"`
	Invalid []InvalidEntry `json:"invalid,omitempty" yaml:"invalid,omitempty"`
}

func (r *HeadersReport) addAll(hs ...*message.Headers) {
	for _, h := range hs {
		if h == nil {
			continue
		}
		for name, vals := range h.All() {
			r.Headers = append(r.Headers, HeaderField{Name: name, Values: vals})
		}
	}
}

// palette holds the output colours, all disabled when the output is not a terminal.
type palette struct {
	name, value, status, invalid *color.Color
}

func newPalette(w io.Writer, noColor bool) *palette {
	p := &palette{
		name:    color.New(color.FgYellow),
		value:   color.New(color.FgWhite),
		status:  color.New(color.FgGreen, color.Bold),
		invalid: color.New(color.FgRed),
	}
	if noColor || !isTerminal(w) {
		for _, c := range []*color.Color{p.name, p.value, p.status, p.invalid} {
			c.DisableColor()
		}
	} else {
		for _, c := range []*color.Color{p.name, p.value, p.status, p.invalid} {
			c.EnableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// encode writes v in the JSON or YAML format.
func encode(out io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return errtrace.Wrap(enc.Encode(v))
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errtrace.Wrap(err)
		}
		return errtrace.Wrap(enc.Close())
	default:
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("unsupported output format %q", format))
	}
}

func writeReport(out, errOut io.Writer, r *HeadersReport, format Format, noColor bool) error {
	if format != FormatText {
		return errtrace.Wrap(encode(out, r, format))
	}

	p := newPalette(out, noColor)
	if r.Status != "" {
		if _, err := p.status.Fprintln(out, r.Status); err != nil {
			return errtrace.Wrap(err)
		}
	}
	for _, f := range r.Headers {
		line := message.JoinValues(f.Name, f.Values)
		if _, err := fmt.Fprintf(out, "%s: %s\n", p.name.Sprint(f.Name), p.value.Sprint(line)); err != nil {
			return errtrace.Wrap(err)
		}
	}

	pe := newPalette(errOut, noColor)
	for _, e := range r.Invalid {
		if _, err := pe.invalid.Fprintf(errOut, "line %d: %q: %s\n", e.Line, e.Text, e.Error); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}
