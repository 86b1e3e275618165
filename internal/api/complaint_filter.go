package api

import (
	"net/url"
	"strings"
)

// SortField is a complaint list sort key.
type SortField string

const (
	SortByModifiedAt SortField = "modified_at"
	SortByCreatedAt  SortField = "created_at"
)

// SortFields lists the accepted sort keys; the first is the default.
var SortFields = []SortField{SortByModifiedAt, SortByCreatedAt}

// SortOrder is the direction of the complaint list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ComplaintFilter selects and orders the complaint list. It is a value:
// the With methods return a modified copy and never touch the receiver.
type ComplaintFilter struct {
	SortBy     SortField `json:"sortBy"`
	SortOrder  SortOrder `json:"sortOrder"`
	UserID     string    `json:"userId,omitempty"`
	CustomerID string    `json:"customerId,omitempty"`
	Search     string    `json:"search,omitempty"`
}

// DefaultComplaintFilter returns the newest-modified-first filter with no scoping.
func DefaultComplaintFilter() ComplaintFilter {
	return ComplaintFilter{SortBy: SortByModifiedAt, SortOrder: SortDesc}
}

// Validate rejects sort fields and orders outside their enumerations.
func (f ComplaintFilter) Validate() error {
	if !f.SortBy.valid() {
		allowed := make([]string, 0, len(SortFields))
		for _, s := range SortFields {
			allowed = append(allowed, string(s))
		}
		return NewValidationError("sort field", string(f.SortBy), allowed)
	}
	if f.SortOrder != SortAsc && f.SortOrder != SortDesc {
		return NewValidationError("sort order", string(f.SortOrder), []string{string(SortAsc), string(SortDesc)})
	}
	return nil
}

func (s SortField) valid() bool {
	for _, f := range SortFields {
		if s == f {
			return true
		}
	}
	return false
}

// Query renders the query string. sortBy and sortOrder always come first;
// userId, customerId and search follow only when set.
func (f ComplaintFilter) Query() string {
	params := []struct{ key, value string }{
		{"sortBy", string(f.SortBy)},
		{"sortOrder", string(f.SortOrder)},
	}
	for _, opt := range []struct{ key, value string }{
		{"userId", f.UserID},
		{"customerId", f.CustomerID},
		{"search", f.Search},
	} {
		if strings.TrimSpace(opt.value) != "" {
			params = append(params, opt)
		}
	}

	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.key)
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}

// Endpoint is the list endpoint for this filter, relative to the api/ prefix.
func (f ComplaintFilter) Endpoint() string {
	return "complaints?" + f.Query()
}

// ToggleOrder flips the sort direction.
func (f ComplaintFilter) ToggleOrder() ComplaintFilter {
	if f.SortOrder == SortAsc {
		f.SortOrder = SortDesc
	} else {
		f.SortOrder = SortAsc
	}
	return f
}

func (f ComplaintFilter) WithSortBy(s SortField) ComplaintFilter {
	f.SortBy = s
	return f
}

func (f ComplaintFilter) WithSortOrder(o SortOrder) ComplaintFilter {
	f.SortOrder = o
	return f
}

func (f ComplaintFilter) WithUser(id string) ComplaintFilter {
	f.UserID = strings.TrimSpace(id)
	return f
}

func (f ComplaintFilter) WithCustomer(id string) ComplaintFilter {
	f.CustomerID = strings.TrimSpace(id)
	return f
}

func (f ComplaintFilter) WithSearch(q string) ComplaintFilter {
	f.Search = strings.TrimSpace(q)
	return f
}
