// Package debug carries debug mode on the context and configures slog.
package debug

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type contextKey string

const debugKey contextKey = "debug_enabled"

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}

// redactedKeys are attribute names whose values never reach the log.
var redactedKeys = []string{"token", "authorization", "password"}

// NewLogger returns a text logger writing to w. Level is Debug when enabled,
// Warn otherwise. Credential-looking attributes are redacted.
func NewLogger(w io.Writer, enabled bool) *slog.Logger {
	level := slog.LevelWarn
	if enabled {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redact,
	})
	return slog.New(handler)
}

// SetupLogger installs NewLogger(w, enabled) as the slog default.
func SetupLogger(w io.Writer, enabled bool) {
	slog.SetDefault(NewLogger(w, enabled))
}

func redact(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, k := range redactedKeys {
		if strings.Contains(key, k) {
			return slog.String(a.Key, "[redacted]")
		}
	}
	return a
}
