package cmd

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "b", 1},
		{"kitten", "sitting", 3},
		{"abc", "abc", 0},
		{"kategorier", "kätegorier", 1},
		{"løst", "lost", 1},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []string{"auth", "complaints", "comments", "comment", "customers", "users", "categories", "cache", "version"}
	tests := []struct {
		input string
		want  string
	}{
		{"complants", "complaints"},
		{"custmers", "customers"},
		{"categores", "categories"},
		{"usrs", "users"},
		{"vers", "version"},
		{"Auth", "auth"},
		{"zzzzzzzzz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := suggestCommand(tt.input, commands); got != tt.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagNames := []string{"--customer", "--description", "--priority", "--status", "--category", "--date"}
	tests := []struct {
		input string
		want  string
	}{
		{"--custmer", "--customer"},
		{"--pririty", "--priority"},
		{"--descr", "--description"},
		{"-stauts", "--status"},
		{"--xyzzyq", ""},
	}
	for _, tt := range tests {
		if got := suggestFlag(tt.input, flagNames); got != tt.want {
			t.Errorf("suggestFlag(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
