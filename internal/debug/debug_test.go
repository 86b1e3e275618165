package debug

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestWithDebug(t *testing.T) {
	ctx := context.Background()
	if IsEnabled(ctx) {
		t.Error("debug should be disabled by default")
	}
	if !IsEnabled(WithDebug(ctx, true)) {
		t.Error("debug should be enabled")
	}
	if IsEnabled(WithDebug(ctx, false)) {
		t.Error("debug should be disabled")
	}
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug message logged at warn level: %q", buf.String())
	}

	NewLogger(&buf, true).Debug("request complete", "status", 200)
	if !strings.Contains(buf.String(), "request complete") || !strings.Contains(buf.String(), "status=200") {
		t.Errorf("unexpected log output: %q", buf.String())
	}
}

func TestNewLogger_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, true).Debug("login", "token", "secret-jwt", "Authorization", "Bearer secret-jwt", "email", "a@b.com")

	out := buf.String()
	if strings.Contains(out, "secret-jwt") {
		t.Fatalf("credential leaked into log: %q", out)
	}
	if !strings.Contains(out, "email=a@b.com") {
		t.Errorf("non-secret attribute missing: %q", out)
	}
}
