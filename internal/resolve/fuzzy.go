// Package resolve turns customer, user and category names into IDs.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Named represents any resource with an ID and display name.
type Named struct {
	ID   int
	Name string
}

// Match is a fuzzy match result with score.
type Match struct {
	ID    int
	Name  string
	Score int
}

var (
	ErrEmptyQuery = errors.New("empty search query")
	ErrEmptyItems = errors.New("no items to match against")
)

// AmbiguousError indicates multiple candidates matched equally well.
type AmbiguousError struct {
	Kind    string
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	kind := e.Kind
	if kind == "" {
		kind = "name"
	}
	_, _ = fmt.Fprintf(&b, "ambiguous %s %q", kind, e.Query)
	if len(e.Matches) > 0 {
		b.WriteString(", candidates:")
		for _, m := range e.Matches {
			_, _ = fmt.Fprintf(&b, "\n  %d: %s", m.ID, m.Name)
		}
	}
	return b.String()
}

// NotFoundError reports a name with no match.
type NotFoundError struct {
	Kind  string
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s matches %q", e.Kind, e.Query)
}

type namedSourceLower []Named

func (s namedSourceLower) String(i int) string { return strings.ToLower(s[i].Name) }
func (s namedSourceLower) Len() int            { return len(s) }

// FuzzyMatch finds the best matching item by name and returns it.
//
// An exact case-insensitive match wins. Otherwise the best fuzzy match is
// used, and a tie between the top two scores is an *AmbiguousError.
func FuzzyMatch(kind, query string, items []Named) (Named, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Named{}, ErrEmptyQuery
	}
	if len(items) == 0 {
		return Named{}, ErrEmptyItems
	}

	for _, item := range items {
		if strings.EqualFold(item.Name, query) {
			return item, nil
		}
	}

	results := fuzzy.FindFrom(strings.ToLower(query), namedSourceLower(items))
	if len(results) == 0 {
		return Named{}, &NotFoundError{Kind: kind, Query: query}
	}
	if len(results) > 1 && results[0].Score == results[1].Score {
		return Named{}, &AmbiguousError{
			Kind:    kind,
			Query:   query,
			Matches: buildMatches(items, results, 5),
		}
	}
	return items[results[0].Index], nil
}

// FuzzyMatchAll returns up to limit matches ranked by score (best first).
func FuzzyMatchAll(query string, items []Named, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 || limit <= 0 {
		return nil
	}

	results := fuzzy.FindFrom(strings.ToLower(query), namedSourceLower(items))
	return buildMatches(items, results, limit)
}

func buildMatches(items []Named, results fuzzy.Matches, limit int) []Match {
	if len(results) == 0 || limit <= 0 {
		return nil
	}
	if len(results) > limit {
		results = results[:limit]
	}
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			ID:    items[r.Index].ID,
			Name:  items[r.Index].Name,
			Score: r.Score,
		}
	}
	return matches
}
