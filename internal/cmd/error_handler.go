package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kundeklager/kundeklager-cli/internal/api"
	"github.com/kundeklager/kundeklager-cli/internal/resolve"
	"github.com/kundeklager/kundeklager-cli/internal/session"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var apiErr *api.APIError
	var loginErr *session.LoginRequiredError
	var ambiguous *resolve.AmbiguousError
	var notFound *resolve.NotFoundError
	var structured *api.StructuredError

	switch {
	case errors.As(err, &loginErr):
		msg.WriteString("You need to log in first.\n\n")
		if loginErr.Redirect != "" {
			fmt.Fprintf(&msg, "Run: kk auth login --redirect %q\n", loginErr.Redirect)
			msg.WriteString("The command is resumed after a successful login.\n")
		} else {
			msg.WriteString("Run: kk auth login\n")
		}

	case errors.Is(err, session.ErrReadOnly):
		fmt.Fprintf(&msg, "Error: %s\n\n", err.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Unset KUNDEKLAGER_TOKEN to use the stored session\n")

	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "API error (HTTP %d): %s\n\n", apiErr.StatusCode, apiErr.Detail)
		msg.WriteString(suggestionsForStatusCode(apiErr.StatusCode))
		if apiErr.RequestID != "" {
			fmt.Fprintf(&msg, "\nRequest ID: %s\n", apiErr.RequestID)
		}

	case errors.As(err, &ambiguous):
		fmt.Fprintf(&msg, "Error: %s\n\n", ambiguous.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Use a longer part of the name\n")
		msg.WriteString("  - Pass the numeric ID instead\n")

	case errors.As(err, &notFound):
		fmt.Fprintf(&msg, "Error: %s\n\n", notFound.Error())
		msg.WriteString("Suggestions:\n")
		fmt.Fprintf(&msg, "  - List the known values: kk %s list\n", pluralKind(notFound.Kind))

	case errors.As(err, &structured) && structured.Suggestion != "":
		fmt.Fprintf(&msg, "Error: %s\n", structured.Message)
		fmt.Fprintf(&msg, "  - %s\n", structured.Suggestion)

	case strings.Contains(err.Error(), "connection refused"):
		msg.WriteString("Connection refused.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check if the complaint backend is running\n")
		msg.WriteString("  - Verify the URL: kk auth status\n")

	case strings.Contains(err.Error(), "no such host"):
		msg.WriteString("DNS resolution failed.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the --base-url spelling\n")
		msg.WriteString("  - Verify your DNS settings\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func pluralKind(kind string) string {
	switch kind {
	case "category":
		return "categories"
	case "":
		return "complaints"
	default:
		return kind + "s"
	}
}

func suggestionsForStatusCode(code int) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch code {
	case 400, 422:
		suggestions.WriteString("  - Check your input values\n")
		suggestions.WriteString("  - Use --debug to see the full request\n")

	case 401:
		suggestions.WriteString("  - Your session may have expired\n")
		suggestions.WriteString("  - Run: kk auth login\n")

	case 403:
		suggestions.WriteString("  - You don't have permission for this action\n")

	case 404:
		suggestions.WriteString("  - Check the ID is correct\n")
		suggestions.WriteString("  - List complaints: kk complaints list\n")

	case 429:
		suggestions.WriteString("  - Too many requests\n")
		suggestions.WriteString("  - Wait and retry in a few seconds\n")

	case 500, 502, 503, 504:
		suggestions.WriteString("  - Server error - not your fault\n")
		suggestions.WriteString("  - Wait and retry\n")

	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}
