package resolve

import (
	"strconv"
	"strings"

	"github.com/kundeklager/kundeklager-cli/internal/api"
)

// byIDOrName accepts a numeric ID present in items, or a name.
func byIDOrName(kind, ref string, items []Named) (Named, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		for _, item := range items {
			if item.ID == id {
				return item, nil
			}
		}
		return Named{}, &NotFoundError{Kind: kind, Query: ref}
	}
	return FuzzyMatch(kind, ref, items)
}

// Customer resolves an ID or name against the customer list.
func Customer(ref string, customers []api.Customer) (api.Customer, error) {
	items := make([]Named, len(customers))
	for i, c := range customers {
		items[i] = Named{ID: c.ID, Name: c.Name}
	}
	n, err := byIDOrName("customer", ref, items)
	if err != nil {
		return api.Customer{}, err
	}
	for _, c := range customers {
		if c.ID == n.ID {
			return c, nil
		}
	}
	return api.Customer{ID: n.ID, Name: n.Name}, nil
}

// User resolves an ID, an exact email, or a name against the user list.
func User(ref string, users []api.User) (api.User, error) {
	for _, u := range users {
		if u.Email != "" && strings.EqualFold(u.Email, strings.TrimSpace(ref)) {
			return u, nil
		}
	}
	items := make([]Named, len(users))
	for i, u := range users {
		items[i] = Named{ID: u.ID, Name: u.Name}
	}
	n, err := byIDOrName("user", ref, items)
	if err != nil {
		return api.User{}, err
	}
	for _, u := range users {
		if u.ID == n.ID {
			return u, nil
		}
	}
	return api.User{ID: n.ID, Name: n.Name}, nil
}

// Category resolves an ID or name against the category list.
func Category(ref string, categories []api.Category) (api.Category, error) {
	items := make([]Named, len(categories))
	for i, c := range categories {
		items[i] = Named{ID: c.ID, Name: c.Name}
	}
	n, err := byIDOrName("category", ref, items)
	if err != nil {
		return api.Category{}, err
	}
	return api.Category{ID: n.ID, Name: n.Name}, nil
}
