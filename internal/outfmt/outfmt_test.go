package outfmt

import (
	"bytes"
	"context"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input       string
		expected    Mode
		expectError bool
	}{
		{"text", Text, false},
		{"", Text, false},
		{"json", JSON, false},
		{"jsonl", JSONL, false},
		{"ndjson", JSONL, false},
		{"agent", Text, true},
		{"JSON", Text, true}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := Parse(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode != tt.expected {
				t.Errorf("expected mode %v, got %v", tt.expected, mode)
			}
		})
	}
}

func TestModeContext(t *testing.T) {
	ctx := context.Background()
	if ModeFromContext(ctx) != Text || IsJSON(ctx) {
		t.Fatal("default mode should be text")
	}

	jsonCtx := WithMode(ctx, JSON)
	if !IsJSON(jsonCtx) || IsJSONL(jsonCtx) {
		t.Error("JSON mode should be JSON but not JSONL")
	}

	jsonlCtx := WithMode(ctx, JSONL)
	if !IsJSON(jsonlCtx) || !IsJSONL(jsonlCtx) {
		t.Error("JSONL mode should count as JSON and JSONL")
	}
}

func TestModeString(t *testing.T) {
	for mode, want := range map[Mode]string{Text: "text", JSON: "json", JSONL: "jsonl"} {
		if got := mode.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mode, got, want)
		}
	}
}

func TestCompactContext(t *testing.T) {
	if IsCompact(context.Background()) {
		t.Error("compact should be off by default")
	}
	if !IsCompact(WithCompact(context.Background(), true)) {
		t.Error("compact should be on after WithCompact(true)")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]string{"Name": "Acme"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "{\n  \"Name\": \"Acme\"\n}\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestWriteJSONLines(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"items": []any{
		map[string]any{"ID": 1},
		map[string]any{"ID": 2},
	}}
	if err := WriteJSONLines(&buf, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "{\"ID\":1}\n{\"ID\":2}\n" {
		t.Errorf("unexpected JSONL output: %q", buf.String())
	}

	buf.Reset()
	if err := WriteJSONLines(&buf, map[string]any{"ID": 3, "Name": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "{\"ID\":3,\"Name\":\"x\"}\n" {
		t.Errorf("single object should be one line, got %q", buf.String())
	}
}
