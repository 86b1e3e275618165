package api

import (
	"strconv"
	"strings"
)

// Priority is a complaint's urgency. The backend encodes it as a number.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// Status is a complaint's processing state. The backend encodes it as a number.
type Status int

const (
	StatusNew Status = iota
	StatusUnderTreatment
	StatusSolved
)

// Severity colors used when rendering enumerations.
const (
	ColorError   = "error"
	ColorWarning = "warning"
	ColorSuccess = "success"
	ColorInfo    = "info"
	ColorDefault = "default"
)

// UnknownLabel is shown for values outside an enumeration.
const UnknownLabel = "Ukjent"

// Priorities lists every defined priority in display order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Statuses lists every defined status in display order.
var Statuses = []Status{StatusNew, StatusUnderTreatment, StatusSolved}

func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "Høy"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Lav"
	default:
		return UnknownLabel
	}
}

func (p Priority) Color() string {
	switch p {
	case PriorityHigh:
		return ColorError
	case PriorityMedium:
		return ColorWarning
	case PriorityLow:
		return ColorSuccess
	default:
		return ColorDefault
	}
}

// Name returns the English identifier accepted by ParsePriority.
func (p Priority) Name() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return strconv.Itoa(int(p))
	}
}

func (s Status) Label() string {
	switch s {
	case StatusNew:
		return "Ny"
	case StatusUnderTreatment:
		return "Under behandling"
	case StatusSolved:
		return "Løst"
	default:
		return UnknownLabel
	}
}

func (s Status) Color() string {
	switch s {
	case StatusNew:
		return ColorInfo
	case StatusUnderTreatment:
		return ColorWarning
	case StatusSolved:
		return ColorSuccess
	default:
		return ColorDefault
	}
}

func (s Status) Name() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusUnderTreatment:
		return "under_treatment"
	case StatusSolved:
		return "solved"
	default:
		return strconv.Itoa(int(s))
	}
}

// ParsePriority accepts an English name, a Norwegian label, or the numeric value.
func ParsePriority(input string) (Priority, error) {
	v := normalizeEnumInput(input)
	for _, p := range Priorities {
		if v == p.Name() || v == normalizeEnumInput(p.Label()) || v == strconv.Itoa(int(p)) {
			return p, nil
		}
	}
	return 0, NewValidationError("priority", input, PriorityNames())
}

// ParseStatus accepts an English name, a Norwegian label, or the numeric value.
func ParseStatus(input string) (Status, error) {
	v := normalizeEnumInput(input)
	for _, s := range Statuses {
		if v == s.Name() || v == normalizeEnumInput(s.Label()) || v == strconv.Itoa(int(s)) {
			return s, nil
		}
	}
	return 0, NewValidationError("status", input, StatusNames())
}

// PriorityNames returns the names accepted by ParsePriority.
func PriorityNames() []string {
	names := make([]string, 0, len(Priorities))
	for _, p := range Priorities {
		names = append(names, p.Name())
	}
	return names
}

// StatusNames returns the names accepted by ParseStatus.
func StatusNames() []string {
	names := make([]string, 0, len(Statuses))
	for _, s := range Statuses {
		names = append(names, s.Name())
	}
	return names
}

func normalizeEnumInput(input string) string {
	v := strings.ToLower(strings.TrimSpace(input))
	return strings.NewReplacer("-", "_", " ", "_").Replace(v)
}
