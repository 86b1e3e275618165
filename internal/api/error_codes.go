package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a machine-readable error classification used in JSON error output.
type ErrorCode string

const (
	ErrBadRequest   ErrorCode = "bad_request"
	ErrUnauthorized ErrorCode = "unauthorized"
	ErrForbidden    ErrorCode = "forbidden"
	ErrNotFound     ErrorCode = "not_found"
	ErrConflict     ErrorCode = "conflict"
	ErrValidation   ErrorCode = "validation_failed"
	ErrRateLimited  ErrorCode = "rate_limited"
	ErrServerError  ErrorCode = "server_error"
	ErrUnknown      ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed when run again later.
// The client never retries on its own.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrRateLimited, ErrServerError:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable hint for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrUnauthorized:
		return "Run 'kk auth login' to authenticate"
	case ErrForbidden:
		return "Your user lacks permission for this action"
	case ErrNotFound:
		return "Verify the ID exists (try 'kk complaints list')"
	case ErrRateLimited:
		return "Wait a moment and try again"
	case ErrValidation:
		return "Check the input values"
	case ErrBadRequest:
		return "Check the request fields"
	case ErrConflict:
		return "The complaint may have changed; fetch it again"
	case ErrServerError:
		return "The server encountered an error; try again later"
	default:
		return ""
	}
}

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(statusCode int) ErrorCode {
	switch statusCode {
	case 400:
		return ErrBadRequest
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	case 422:
		return ErrValidation
	case 429:
		return ErrRateLimited
	default:
		if statusCode >= 500 && statusCode < 600 {
			return ErrServerError
		}
		return ErrUnknown
	}
}

// StructuredError provides machine-readable error information.
type StructuredError struct {
	Code          ErrorCode      `json:"code"`
	Message       string         `json:"message"`
	Retryable     bool           `json:"retryable"`
	Suggestion    string         `json:"suggestion,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
	AllowedValues []string       `json:"allowed_values,omitempty"`
}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

// NewValidationError reports an input value outside an allowed set.
func NewValidationError(field string, got string, allowed []string) *StructuredError {
	return &StructuredError{
		Code:          ErrValidation,
		Message:       fmt.Sprintf("invalid %s %q: must be one of %s", field, got, strings.Join(allowed, ", ")),
		Suggestion:    fmt.Sprintf("Use one of: %s", strings.Join(allowed, ", ")),
		AllowedValues: allowed,
		Context:       map[string]any{"field": field, "got": got},
	}
}

// StructuredErrorFromAPIError converts an APIError to a StructuredError.
func StructuredErrorFromAPIError(apiErr *APIError) *StructuredError {
	code := ErrorCodeFromStatus(apiErr.StatusCode)
	ctx := map[string]any{
		"status_code":   apiErr.StatusCode,
		"detail_source": apiErr.Source.String(),
	}
	if apiErr.RequestID != "" {
		ctx["request_id"] = apiErr.RequestID
	}
	return &StructuredError{
		Code:       code,
		Message:    apiErr.Detail,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
		Context:    ctx,
	}
}

// StructuredErrorFromError converts any error to a StructuredError.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return StructuredErrorFromAPIError(apiErr)
	}

	return &StructuredError{
		Code:    ErrUnknown,
		Message: err.Error(),
	}
}
