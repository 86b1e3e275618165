package resolve_test

import (
	"errors"
	"testing"

	"github.com/kundeklager/kundeklager-cli/internal/resolve"
)

func TestFuzzyMatch_ExactHit(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Fjord Logistikk AS"},
		{ID: 2, Name: "Acme Norge"},
	}
	got, err := resolve.FuzzyMatch("customer", "Acme Norge", items)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 2 {
		t.Fatalf("expected ID 2, got %d", got.ID)
	}
}

func TestFuzzyMatch_PartialHit(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Fjord Logistikk AS"},
		{ID: 2, Name: "Acme Norge"},
	}
	got, err := resolve.FuzzyMatch("customer", "fjord", items)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 1 {
		t.Fatalf("expected ID 1, got %d", got.ID)
	}
}

func TestFuzzyMatch_CaseInsensitive(t *testing.T) {
	items := []resolve.Named{{ID: 1, Name: "Acme Norge"}}
	got, err := resolve.FuzzyMatch("customer", "ACME", items)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 1 {
		t.Fatalf("expected ID 1, got %d", got.ID)
	}
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	items := []resolve.Named{{ID: 1, Name: "Acme Norge"}}
	_, err := resolve.FuzzyMatch("customer", "xyz", items)
	var nf *resolve.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
	if nf.Error() != `no customer matches "xyz"` {
		t.Errorf("unexpected message: %q", nf.Error())
	}
}

func TestFuzzyMatch_Ambiguous(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Acme NO"},
		{ID: 2, Name: "Acme SE"},
	}
	_, err := resolve.FuzzyMatch("customer", "acme", items)
	var ae *resolve.AmbiguousError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AmbiguousError, got %T: %v", err, err)
	}
	if len(ae.Matches) != 2 || ae.Kind != "customer" {
		t.Fatalf("unexpected ambiguity error: %+v", ae)
	}
}

func TestFuzzyMatch_PrefersExactOverFuzzy(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Levering"},
		{ID: 2, Name: "Levering utland"},
	}
	got, err := resolve.FuzzyMatch("category", "levering", items)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 1 {
		t.Fatalf("expected exact match ID 1, got %d", got.ID)
	}
}

func TestFuzzyMatch_EmptyInputs(t *testing.T) {
	if _, err := resolve.FuzzyMatch("customer", " ", []resolve.Named{{ID: 1, Name: "A"}}); !errors.Is(err, resolve.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if _, err := resolve.FuzzyMatch("customer", "a", nil); !errors.Is(err, resolve.ErrEmptyItems) {
		t.Fatalf("expected ErrEmptyItems, got %v", err)
	}
}

func TestFuzzyMatchAll_ReturnsRanked(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Levering"},
		{ID: 2, Name: "Lagerfeil"},
		{ID: 3, Name: "Faktura"},
	}
	matches := resolve.FuzzyMatchAll("l", items, 10)
	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Fatal("matches should be sorted best first")
		}
	}
	if resolve.FuzzyMatchAll("", items, 10) != nil {
		t.Fatal("empty query should give nil")
	}
}
