package api

import "testing"

func TestPriorityLabelAndColor(t *testing.T) {
	tests := []struct {
		p     Priority
		label string
		color string
	}{
		{PriorityHigh, "Høy", ColorError},
		{PriorityMedium, "Medium", ColorWarning},
		{PriorityLow, "Lav", ColorSuccess},
		{Priority(3), UnknownLabel, ColorDefault},
		{Priority(-1), UnknownLabel, ColorDefault},
	}
	for _, tt := range tests {
		if got := tt.p.Label(); got != tt.label {
			t.Errorf("Priority(%d).Label() = %q, want %q", tt.p, got, tt.label)
		}
		if got := tt.p.Color(); got != tt.color {
			t.Errorf("Priority(%d).Color() = %q, want %q", tt.p, got, tt.color)
		}
	}
}

func TestStatusLabelAndColor(t *testing.T) {
	tests := []struct {
		s     Status
		label string
		color string
	}{
		{StatusNew, "Ny", ColorInfo},
		{StatusUnderTreatment, "Under behandling", ColorWarning},
		{StatusSolved, "Løst", ColorSuccess},
		{Status(9), UnknownLabel, ColorDefault},
	}
	for _, tt := range tests {
		if got := tt.s.Label(); got != tt.label {
			t.Errorf("Status(%d).Label() = %q, want %q", tt.s, got, tt.label)
		}
		if got := tt.s.Color(); got != tt.color {
			t.Errorf("Status(%d).Color() = %q, want %q", tt.s, got, tt.color)
		}
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"high", PriorityHigh, false},
		{"HIGH", PriorityHigh, false},
		{"Høy", PriorityHigh, false},
		{"0", PriorityHigh, false},
		{"medium", PriorityMedium, false},
		{" lav ", PriorityLow, false},
		{"2", PriorityLow, false},
		{"urgent", 0, true},
		{"3", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePriority(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParsePriority(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"new", StatusNew, false},
		{"ny", StatusNew, false},
		{"under-treatment", StatusUnderTreatment, false},
		{"Under behandling", StatusUnderTreatment, false},
		{"solved", StatusSolved, false},
		{"Løst", StatusSolved, false},
		{"1", StatusUnderTreatment, false},
		{"closed", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
