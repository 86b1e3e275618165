package resolve_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/kundeklager/kundeklager-cli/internal/api"
	"github.com/kundeklager/kundeklager-cli/internal/resolve"
)

func TestAmbiguousErrorString(t *testing.T) {
	err := &resolve.AmbiguousError{
		Kind:  "customer",
		Query: "acme",
		Matches: []resolve.Match{
			{ID: 1, Name: "Acme NO"},
			{ID: 2, Name: "Acme SE"},
		},
	}

	msg := err.Error()
	if !strings.Contains(msg, `ambiguous customer "acme"`) {
		t.Fatalf("missing query in error message: %q", msg)
	}
	if !strings.Contains(msg, "1: Acme NO") || !strings.Contains(msg, "2: Acme SE") {
		t.Fatalf("missing candidates in error message: %q", msg)
	}
}

func TestCustomer(t *testing.T) {
	customers := []api.Customer{{ID: 7, Name: "Acme Norge"}, {ID: 9, Name: "Fjord Logistikk AS"}}

	got, err := resolve.Customer("7", customers)
	if err != nil || got.Name != "Acme Norge" {
		t.Fatalf("by ID: %+v, %v", got, err)
	}

	got, err = resolve.Customer("fjord", customers)
	if err != nil || got.ID != 9 {
		t.Fatalf("by name: %+v, %v", got, err)
	}

	_, err = resolve.Customer("42", customers)
	var nf *resolve.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("unknown ID should be NotFoundError, got %v", err)
	}
}

func TestUser(t *testing.T) {
	users := []api.User{
		{ID: 3, Email: "kari@example.com", Name: "Kari Nordmann"},
		{ID: 4, Email: "ola@example.com", Name: "Ola Hansen"},
	}

	got, err := resolve.User("OLA@example.com", users)
	if err != nil || got.ID != 4 {
		t.Fatalf("by email: %+v, %v", got, err)
	}
	got, err = resolve.User("kari", users)
	if err != nil || got.ID != 3 {
		t.Fatalf("by name: %+v, %v", got, err)
	}
	got, err = resolve.User("4", users)
	if err != nil || got.Email != "ola@example.com" {
		t.Fatalf("by ID: %+v, %v", got, err)
	}
}

func TestCategory(t *testing.T) {
	categories := []api.Category{{ID: 4, Name: "Levering"}, {ID: 5, Name: "Faktura"}}

	got, err := resolve.Category("faktura", categories)
	if err != nil || got.ID != 5 {
		t.Fatalf("by name: %+v, %v", got, err)
	}
	if _, err := resolve.Category("x", nil); !errors.Is(err, resolve.ErrEmptyItems) {
		t.Fatalf("empty list: %v", err)
	}
}
