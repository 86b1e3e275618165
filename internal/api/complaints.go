package api

import (
	"context"
	"fmt"
	"net/http"
)

// List retrieves complaints matching the filter.
func (s ComplaintsService) List(ctx context.Context, filter ComplaintFilter) ([]Complaint, error) {
	return listComplaints(ctx, s, filter)
}

func listComplaints(ctx context.Context, r Requester, filter ComplaintFilter) ([]Complaint, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	var result []Complaint
	if err := r.do(ctx, http.MethodGet, r.resourcePath(filter.Endpoint()), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Get retrieves a single complaint with its comments.
func (s ComplaintsService) Get(ctx context.Context, id int) (*Complaint, error) {
	return getComplaint(ctx, s, id)
}

func getComplaint(ctx context.Context, r Requester, id int) (*Complaint, error) {
	var result Complaint
	if err := r.do(ctx, http.MethodGet, r.resourcePath(fmt.Sprintf("complaints/%d", id)), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create submits a new complaint and returns the backend's confirmation.
func (s ComplaintsService) Create(ctx context.Context, form ComplaintForm) (string, error) {
	return createComplaint(ctx, s, form)
}

func createComplaint(ctx context.Context, r Requester, form ComplaintForm) (string, error) {
	body, err := r.doRaw(ctx, http.MethodPost, r.resourcePath("complaints/create"), form)
	if err != nil {
		return "", err
	}
	return confirmation(body), nil
}

// Edit updates a complaint. Only description and priority are sent;
// the remaining form fields are not editable through this endpoint.
func (s ComplaintsService) Edit(ctx context.Context, id int, form ComplaintForm) (string, error) {
	return editComplaint(ctx, s, id, form)
}

func editComplaint(ctx context.Context, r Requester, id int, form ComplaintForm) (string, error) {
	body := struct {
		Description string   `json:"description"`
		Priority    Priority `json:"priority"`
	}{
		Description: form.Description,
		Priority:    form.Priority,
	}
	resp, err := r.doRaw(ctx, http.MethodPut, r.resourcePath(fmt.Sprintf("complaints/edit/%d", id)), body)
	if err != nil {
		return "", err
	}
	return confirmation(resp), nil
}
