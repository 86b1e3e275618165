package cmd

import (
	"reflect"
	"testing"
)

func TestJoinArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"complaints", "list"}, "complaints list"},
		{[]string{"comment", "12", "hei du"}, "comment 12 'hei du'"},
		{[]string{"comment", "12", "it's"}, `comment 12 'it'\''s'`},
		{[]string{"complaints", "list", "--search", ""}, "complaints list --search ''"},
	}
	for _, tt := range tests {
		if got := joinArgs(tt.args); got != tt.want {
			t.Errorf("joinArgs(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"complaints list", []string{"complaints", "list"}},
		{"  complaints\tlist  ", []string{"complaints", "list"}},
		{`comment 12 "hei du"`, []string{"comment", "12", "hei du"}},
		{`comment 12 "si \"hei\""`, []string{"comment", "12", `si "hei"`}},
		{`comment 12 hei\ du`, []string{"comment", "12", "hei du"}},
		{`complaints list --search ''`, []string{"complaints", "list", "--search", ""}},
		{"", nil},
	}
	for _, tt := range tests {
		got, err := splitArgs(tt.line)
		if err != nil {
			t.Errorf("splitArgs(%q) error: %v", tt.line, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitArgs(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestSplitArgs_Errors(t *testing.T) {
	for _, line := range []string{`comment 'open`, `comment "open`, `comment trailing\`} {
		if _, err := splitArgs(line); err == nil {
			t.Errorf("splitArgs(%q) should fail", line)
		}
	}
}

func TestJoinSplitRoundTrip(t *testing.T) {
	args := []string{"complaints", "create", "--customer", "Ola's Bakeri", "--description", "Brød \"ferskt\" i går\\i dag"}
	got, err := splitArgs(joinArgs(args))
	if err != nil {
		t.Fatalf("splitArgs: %v", err)
	}
	if !reflect.DeepEqual(got, args) {
		t.Errorf("round trip = %q, want %q", got, args)
	}
}
