package cmd

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kundeklager/kundeklager-cli/internal/api"
	"github.com/kundeklager/kundeklager-cli/internal/resolve"
	"github.com/kundeklager/kundeklager-cli/internal/session"
)

const (
	exitOK          = 0
	exitGeneric     = 1
	exitUsage       = 2
	exitAuth        = 3
	exitNotFound    = 4
	exitForbidden   = 5
	exitRateLimited = 6
	exitServer      = 7
	exitNetwork     = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	var loginErr *session.LoginRequiredError
	if errors.As(err, &loginErr) || errors.Is(err, session.ErrReadOnly) {
		return exitAuth
	}
	var notFound *resolve.NotFoundError
	if errors.As(err, &notFound) {
		return exitNotFound
	}
	var ambiguous *resolve.AmbiguousError
	if errors.As(err, &ambiguous) {
		return exitUsage
	}
	if code := exitCodeFromStructured(err); code != 0 {
		return code
	}
	if isUsageError(err) {
		return exitUsage
	}
	if isNetworkError(err) {
		return exitNetwork
	}
	return exitGeneric
}

func exitCodeFromStructured(err error) int {
	structured := api.StructuredErrorFromError(err)
	if structured == nil {
		return 0
	}
	switch structured.Code {
	case api.ErrUnauthorized:
		return exitAuth
	case api.ErrForbidden:
		return exitForbidden
	case api.ErrNotFound:
		return exitNotFound
	case api.ErrRateLimited:
		return exitRateLimited
	case api.ErrServerError:
		return exitServer
	case api.ErrBadRequest, api.ErrValidation, api.ErrConflict:
		return exitUsage
	default:
		return 0
	}
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "certificate") ||
		strings.Contains(msg, "timeout")
}

func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"requires at least",
		"requires exactly",
		"accepts at most",
		"invalid argument",
		"must be",
		"is required",
		"conflicts with",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
