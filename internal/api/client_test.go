package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestClient creates a client with a fixed request ID.
func newTestClient(baseURL, token string) *Client {
	c := New(baseURL, StaticToken(token))
	c.RequestIDFunc = func() string { return "req-test" }
	return c
}

func TestNew_DefaultBaseURL(t *testing.T) {
	c := New("", nil)
	if c.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL, DefaultBaseURL)
	}
	if c.RequestIDFunc == nil {
		t.Error("RequestIDFunc should default to uuid")
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultBaseURL},
		{"  ", DefaultBaseURL},
		{"http://example.test", "http://example.test/"},
		{"http://example.test/", "http://example.test/"},
		{"http://example.test/base", "http://example.test/base/"},
	}
	for _, tt := range tests {
		if got := normalizeBaseURL(tt.in); got != tt.want {
			t.Errorf("normalizeBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAuthRequired(t *testing.T) {
	tests := map[string]bool{
		"login":                 false,
		"register":              false,
		"api/complaints":        true,
		"api/customers":         true,
		"api/comments/create/1": true,
	}
	for endpoint, want := range tests {
		if got := authRequired(endpoint); got != want {
			t.Errorf("authRequired(%q) = %v, want %v", endpoint, got, want)
		}
	}
}

func TestExecuteRequest_ResolvesAgainstBaseURL(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "tok")
	if _, err := client.Complaints().List(context.Background(), DefaultComplaintFilter()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/complaints" {
		t.Errorf("path = %q, want /api/complaints", gotPath)
	}
	if gotQuery != "sortBy=modified_at&sortOrder=desc" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestExecuteRequest_SendsJSONBodyAndRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-Id") != "req-test" {
			t.Errorf("X-Request-Id = %q", r.Header.Get("X-Request-Id"))
		}
		body, _ := io.ReadAll(r.Body)
		var m map[string]any
		if err := json.Unmarshal(body, &m); err != nil {
			t.Errorf("body is not JSON: %v", err)
		}
		if m["comment"] != "hei" {
			t.Errorf("comment = %v", m["comment"])
		}
		_, _ = w.Write([]byte(`"ok"`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "tok")
	got, err := client.Comments().Create(context.Background(), 3, "hei")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("confirmation = %q, want ok", got)
	}
}

func TestExecuteRequest_NonSuccessBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", "server-id")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Complaint not found"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "tok")
	_, err := client.Complaints().Get(context.Background(), 99)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != 404 || apiErr.Detail != "Complaint not found" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if apiErr.RequestID != "server-id" {
		t.Errorf("RequestID = %q, want server-id", apiErr.RequestID)
	}
	if err.Error() != "API error: 404 - Complaint not found" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsNotFoundError(err) {
		t.Error("IsNotFoundError should be true")
	}
}

func TestExecuteRequest_DecodeFailureIsWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "tok")
	_, err := client.Customers().List(context.Background())
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "unexpected API response format") {
		t.Errorf("error = %v", err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("decode failure must not be an APIError")
	}
}

func TestExecuteRequest_EmptySuccessBodyIsZeroValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "tok")
	got, err := client.Customers().List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil slice, got %v", got)
	}
}

func TestExecuteRequest_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(url, "tok")
	_, err := client.Customers().List(context.Background())
	if err == nil {
		t.Fatal("expected network error")
	}
	if !strings.Contains(err.Error(), "request failed") {
		t.Errorf("error = %v", err)
	}
}

func TestConfirmation(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`"Complaint created"`, "Complaint created"},
		{`Complaint created`, "Complaint created"},
		{`{"id":5}`, `{"id":5}`},
		{"  \n", ""},
	}
	for _, tt := range tests {
		if got := confirmation([]byte(tt.body)); got != tt.want {
			t.Errorf("confirmation(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
