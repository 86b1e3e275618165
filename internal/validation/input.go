// Package validation checks user input before any request is sent.
package validation

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kundeklager/kundeklager-cli/internal/api"
)

// Input length limits
const (
	MaxNameLength        = 255
	MaxEmailLength       = 320 // RFC 5321: 64 (local) + 1 (@) + 255 (domain)
	MaxDescriptionLength = 10000
	MaxCommentLength     = 10000
	MinPasswordLength    = 1
)

// DateLayout is the accepted complaint date format.
const DateLayout = "2006-01-02"

func invalid(field, format string, args ...any) *api.StructuredError {
	return &api.StructuredError{
		Code:       api.ErrValidation,
		Message:    fmt.Sprintf(format, args...),
		Suggestion: api.ErrValidation.Suggestion(),
		Context:    map[string]any{"field": field},
	}
}

// Required fails when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "%s is required", field)
	}
	return nil
}

// ValidateText checks a required free-text field against a rune limit.
func ValidateText(field, value string, limit int) error {
	if err := Required(field, value); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(value); n > limit {
		return invalid(field, "%s exceeds maximum length of %d characters (got %d)", field, limit, n)
	}
	return nil
}

// ValidateName checks a required person or customer name.
func ValidateName(field, name string) error {
	return ValidateText(field, name, MaxNameLength)
}

// ValidateEmail checks that email is present, within length, and a bare address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if err := Required("email", email); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(email); n > MaxEmailLength {
		return invalid("email", "email exceeds maximum length of %d characters (got %d)", MaxEmailLength, n)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "invalid email format: %q", email)
	}
	return nil
}

// ValidatePassword checks that a password was supplied.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return invalid("password", "password is required")
	}
	return nil
}

// ParseDate parses a complaint date in DateLayout, RFC 3339, or a relative
// day such as "yesterday" or "3d ago". A blank value yields now.
func ParseDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now, nil
	}
	if t, ok := parseRelativeDay(value, now); ok {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, invalid("date", "invalid date %q: must be YYYY-MM-DD, RFC 3339, or a relative day like yesterday or 3d ago", value)
	}
	return t, nil
}

// ParsePositiveInt parses a string as a positive integer ID.
// Returns error if the value is not a positive integer or exceeds int32 range.
func ParsePositiveInt(s string, fieldName string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	id64, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, invalid(fieldName, "invalid %s %q: must be a positive integer", fieldName, s)
	}
	if id64 <= 0 {
		return 0, invalid(fieldName, "invalid %s: must be a positive integer", fieldName)
	}
	return int(id64), nil
}
