// Package filter applies jq expressions to command output using gojq.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// fieldAliases maps lower-case field names to the backend's JSON keys so
// `.description` works as well as `.Description`.
var fieldAliases = map[string]string{
	"id":           "ID",
	"name":         "Name",
	"email":        "Email",
	"description":  "Description",
	"customer":     "Customer",
	"category":     "Category",
	"priority":     "Priority",
	"status":       "Status",
	"comments":     "Comments",
	"comment":      "Comment",
	"complaint_id": "ComplaintID",
	"created_at":   "CreatedAt",
	"created_by":   "CreatedBy",
	"modified_at":  "ModifiedAt",
}

// NormalizeExpression fixes shell-escaped operators and expands field aliases.
// Zsh escapes ! to \! even in single quotes, breaking operators like !=.
func NormalizeExpression(expr string) string {
	return expandAliases(fixShellEscapes(expr))
}

func fixShellEscapes(expr string) string {
	return strings.ReplaceAll(expr, `\!`, `!`)
}

// expandAliases rewrites `.alias` path segments outside string literals.
// Every segment of a chained path (`.customer.name`) is considered.
func expandAliases(expr string) string {
	var sb strings.Builder
	inString := false
	inPath := false
	for i := 0; i < len(expr); i++ {
		ch := expr[i]
		if inString {
			sb.WriteByte(ch)
			if ch == '\\' && i+1 < len(expr) {
				i++
				sb.WriteByte(expr[i])
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			inPath = false
			sb.WriteByte(ch)
			continue
		}
		// A '.' after a bare identifier or number (e.g. 1.5) is not a path.
		if ch == '.' && (i == 0 || inPath || !isIdentByte(expr[i-1])) {
			j := i + 1
			for j < len(expr) && isIdentByte(expr[j]) {
				j++
			}
			segment := expr[i+1 : j]
			sb.WriteByte('.')
			if key, ok := fieldAliases[segment]; ok {
				sb.WriteString(key)
			} else {
				sb.WriteString(segment)
			}
			inPath = segment != ""
			i = j - 1
			continue
		}
		inPath = false
		sb.WriteByte(ch)
	}
	return sb.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// applyWith is the shared core: normalize the expression, parse, and run jq.
func applyWith(data any, expression string, normalize func(string) string) (any, error) {
	if expression == "" {
		return data, nil
	}

	expression = normalize(expression)
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	results, err := runQuery(query, data)
	if err != nil {
		if items, ok := itemsQueryFallbackData(data, expression, err); ok {
			if fallbackResults, fallbackErr := runQuery(query, items); fallbackErr == nil {
				results = fallbackResults
				err = nil
			}
		}
	}
	if err != nil {
		return nil, err
	}

	return collapseQueryResults(results), nil
}

func runQuery(query *gojq.Query, data any) ([]any, error) {
	iter := query.Run(data)

	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func collapseQueryResults(results []any) any {
	if len(results) == 1 {
		return results[0]
	}
	return results
}

// itemsQueryFallbackData lets `.[]` queries run against the list inside the
// {"items": [...]} wrapper that JSON output uses.
func itemsQueryFallbackData(data any, expression string, runErr error) (any, bool) {
	if runErr == nil || !looksLikeRootArrayQuery(expression) {
		return nil, false
	}
	if !strings.Contains(runErr.Error(), "expected an object but got: array") {
		return nil, false
	}

	m, ok := data.(map[string]any)
	if !ok {
		return nil, false
	}
	items, ok := m["items"].([]any)
	if !ok {
		return nil, false
	}
	return items, true
}

func looksLikeRootArrayQuery(expression string) bool {
	expr := strings.TrimSpace(expression)
	return strings.HasPrefix(expr, ".[]") || strings.HasPrefix(expr, "[.[]") || strings.HasPrefix(expr, "(.[]")
}

// Apply applies a jq expression to the input data. The expression runs as
// written first; when that yields nothing but nulls and the expression
// contains lower-case field aliases, it is re-run with the aliases expanded.
func Apply(data any, expression string) (any, error) {
	literal, err := applyWith(data, expression, fixShellEscapes)
	if err == nil && !isBlankResult(literal) {
		return literal, nil
	}
	if NormalizeExpression(expression) == fixShellEscapes(expression) {
		return literal, err
	}
	return applyWith(data, expression, NormalizeExpression)
}

func isBlankResult(v any) bool {
	switch r := v.(type) {
	case nil:
		return true
	case []any:
		for _, item := range r {
			if !isBlankResult(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ApplyLiteral applies a jq expression without alias expansion.
func ApplyLiteral(data any, expression string) (any, error) {
	return applyWith(data, expression, fixShellEscapes)
}

// ApplyToJSON applies filter to JSON bytes and returns filtered JSON bytes (pretty-printed).
func ApplyToJSON(jsonData []byte, expression string) ([]byte, error) {
	if expression == "" {
		return jsonData, nil
	}
	result, err := ApplyFromJSON(jsonData, expression)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(result, "", "  ")
}

// ApplyFromJSON applies a jq expression to JSON bytes and returns the result as a Go value.
func ApplyFromJSON(jsonData []byte, expression string) (any, error) {
	var data any
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return Apply(data, expression)
}
