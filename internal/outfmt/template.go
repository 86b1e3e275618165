package outfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"text/template"
	"time"

	"github.com/kundeklager/kundeklager-cli/internal/api"
)

type templateKey struct{}

// WithTemplate adds a template string to the context
func WithTemplate(ctx context.Context, tmpl string) context.Context {
	return context.WithValue(ctx, templateKey{}, tmpl)
}

// GetTemplate retrieves the template string from context
func GetTemplate(ctx context.Context) string {
	if tmpl, ok := ctx.Value(templateKey{}).(string); ok {
		return tmpl
	}
	return ""
}

// DateLayout is the date format used in text output and the `date` template func.
const DateLayout = "2006-01-02"

var templateFuncs = template.FuncMap{
	"json": func(val any) (string, error) {
		buf := &bytes.Buffer{}
		enc := json.NewEncoder(buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(val); err != nil {
			return "", err
		}
		return buf.String(), nil
	},
	"priority": func(val any) string {
		n, ok := templateInt(val)
		if !ok {
			return api.UnknownLabel
		}
		return api.Priority(n).Label()
	},
	"status": func(val any) string {
		n, ok := templateInt(val)
		if !ok {
			return api.UnknownLabel
		}
		return api.Status(n).Label()
	},
	"date": func(val any) string {
		s, ok := val.(string)
		if !ok || s == "" {
			return ""
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return s
		}
		return t.Format(DateLayout)
	},
}

// templateInt accepts the numeric shapes a value can have after a JSON round trip.
func templateInt(val any) (int, bool) {
	switch n := val.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

// WriteTemplate renders data using a Go text/template string
func WriteTemplate(w io.Writer, v any, tmpl string) error {
	t, err := template.New("output").Funcs(templateFuncs).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return formatTemplateError("invalid template", err)
	}
	if err := t.Execute(w, v); err != nil {
		return formatTemplateError("template execution error", err)
	}
	return nil
}

var templateLocationPattern = regexp.MustCompile(`:(\d+):(\d+):`)

func formatTemplateError(kind string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if matches := templateLocationPattern.FindStringSubmatch(msg); len(matches) == 3 {
		return fmt.Errorf("%s at line %s, column %s: %s", kind, matches[1], matches[2], msg)
	}
	return fmt.Errorf("%s: %w", kind, err)
}
