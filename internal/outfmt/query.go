package outfmt

import (
	"context"
	"encoding/json"
	"io"

	"github.com/kundeklager/kundeklager-cli/internal/filter"
)

type queryKey struct{}

// WithQuery adds a jq query to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery retrieves the jq query from context
func GetQuery(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// WriteJSONFiltered writes JSON with optional jq filtering.
// Uses pretty-printed output by default; pass compact=true for single-line output.
func WriteJSONFiltered(w io.Writer, v any, query string, compact bool) error {
	filtered, err := ApplyQuery(v, query)
	if err != nil {
		return err
	}
	return WriteJSONMaybeCompact(w, filtered, compact)
}

// ApplyQuery wraps lists, then applies a jq query and returns the filtered value.
// An empty query returns the wrapped value unchanged.
func ApplyQuery(v any, query string) (any, error) {
	v = normalizeJSONOutput(v)
	if query == "" {
		return v, nil
	}

	// gojq only understands plain JSON values, so round-trip through encoding/json.
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return filter.ApplyFromJSON(data, query)
}
