package outfmt

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFormatter_TextModeTable(t *testing.T) {
	var out bytes.Buffer
	f := NewFormatter(context.Background(), &out, &out)

	if !f.StartTable([]string{"ID", "CUSTOMER", "PRIORITY"}) {
		t.Fatal("StartTable should return true in text mode")
	}
	f.Row("1", "Acme", "Høy")
	f.Row("12", "Fjord Logistikk", "Lav")
	if err := f.EndTable(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", out.String())
	}
	if strings.Index(lines[1], "Acme") != strings.Index(lines[0], "CUSTOMER") {
		t.Errorf("columns should be aligned:\n%s", out.String())
	}
}

func TestFormatter_TextModeOutputWritesNothing(t *testing.T) {
	var out bytes.Buffer
	f := NewFormatter(context.Background(), &out, &out)
	if err := f.Output(map[string]string{"Name": "Acme"}); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output in text mode, got: %s", out.String())
	}
}

func TestFormatter_JSONMode(t *testing.T) {
	var out bytes.Buffer
	ctx := WithCompact(WithMode(context.Background(), JSON), true)
	f := NewFormatter(ctx, &out, &out)

	if f.StartTable([]string{"ID"}) {
		t.Fatal("StartTable should return false in JSON mode")
	}
	if err := f.Output([]map[string]int{{"ID": 1}}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != `{"items":[{"ID":1}]}` {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestFormatter_JSONLMode(t *testing.T) {
	var out bytes.Buffer
	f := NewFormatter(WithMode(context.Background(), JSONL), &out, &out)
	if err := f.Output([]map[string]int{{"ID": 1}, {"ID": 2}}); err != nil {
		t.Fatal(err)
	}
	if out.String() != "{\"ID\":1}\n{\"ID\":2}\n" {
		t.Errorf("unexpected JSONL output: %q", out.String())
	}
}

func TestFormatter_QueryAndTemplate(t *testing.T) {
	var out bytes.Buffer
	ctx := WithMode(context.Background(), JSON)
	ctx = WithQuery(ctx, ".items[0]")
	ctx = WithTemplate(ctx, "First: {{.Name}}")
	f := NewFormatter(ctx, &out, &out)

	if err := f.Output([]map[string]string{{"Name": "Acme"}, {"Name": "Fjord"}}); err != nil {
		t.Fatal(err)
	}
	if out.String() != "First: Acme" {
		t.Errorf("expected 'First: Acme', got: %s", out.String())
	}
}

func TestFormatter_Empty(t *testing.T) {
	var out, errOut bytes.Buffer
	f := NewFormatter(context.Background(), &out, &errOut)
	f.Empty("No complaints found")
	if out.Len() != 0 || !strings.Contains(errOut.String(), "No complaints found") {
		t.Error("empty message should go to stderr only")
	}
}
