package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Detail     string
	Source     DetailSource
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Detail)
}

// DetailSource tags which step of the fallback chain produced an error detail.
type DetailSource int

const (
	DetailUnknown DetailSource = iota
	DetailFromMessage
	DetailFromJSON
	DetailFromText
)

func (s DetailSource) String() string {
	switch s {
	case DetailFromMessage:
		return "message"
	case DetailFromJSON:
		return "json"
	case DetailFromText:
		return "text"
	default:
		return "unknown"
	}
}

// UnknownErrorDetail is the detail used when the body carries nothing usable.
const UnknownErrorDetail = "Unknown error"

// ErrorDetail is the tagged result of ExtractErrorDetail.
type ErrorDetail struct {
	Text   string
	Source DetailSource
}

// ExtractErrorDetail walks the fallback chain in order: JSON message field,
// compact JSON body, trimmed text body, then UnknownErrorDetail.
func ExtractErrorDetail(body []byte) ErrorDetail {
	for _, step := range []func([]byte) (ErrorDetail, bool){
		detailFromMessage,
		detailFromJSON,
		detailFromText,
	} {
		if d, ok := step(body); ok {
			return d
		}
	}
	return ErrorDetail{Text: UnknownErrorDetail, Source: DetailUnknown}
}

func detailFromMessage(body []byte) (ErrorDetail, bool) {
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ErrorDetail{}, false
	}
	msg, ok := payload.Message.(string)
	if !ok || strings.TrimSpace(msg) == "" {
		return ErrorDetail{}, false
	}
	return ErrorDetail{Text: msg, Source: DetailFromMessage}, true
}

func detailFromJSON(body []byte) (ErrorDetail, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return ErrorDetail{}, false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return ErrorDetail{}, false
	}
	return ErrorDetail{Text: buf.String(), Source: DetailFromJSON}, true
}

func detailFromText(body []byte) (ErrorDetail, bool) {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ErrorDetail{}, false
	}
	return ErrorDetail{Text: text, Source: DetailFromText}, true
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether the backend rejected the token.
// Expired sessions surface this way; the client never logs out on its own.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden reports a 403 response.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}
