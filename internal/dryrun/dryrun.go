// Package dryrun previews mutating requests without sending them.
package dryrun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Preview describes the request a mutation would send.
type Preview struct {
	Operation string         `json:"operation"`
	Method    string         `json:"method"`
	Endpoint  string         `json:"endpoint"`
	Body      map[string]any `json:"body,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// Write outputs the preview as text.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[DRY-RUN] Would %s\n", p.Operation)
	_, _ = fmt.Fprintf(w, "  %s %s\n", p.Method, p.Endpoint)

	if len(p.Body) > 0 {
		keys := make([]string, 0, len(p.Body))
		for k := range p.Body {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s: %v\n", k, p.Body[k])
		}
	}

	for _, warning := range p.Warnings {
		_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
	}
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}

// BodyOf converts a request body struct into the map a Preview shows,
// using the same JSON encoding the request would.
func BodyOf(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}
