package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kundeklager/kundeklager-cli/internal/debug"
)

const (
	DefaultBaseURL = "http://localhost:3000/"
	DefaultTimeout = 30 * time.Second

	// resourcePrefix is where every authenticated resource lives on the backend.
	resourcePrefix = "api/"
)

// TokenSource supplies the bearer token for authenticated requests.
// An empty token means "not logged in"; the Authorization header is then omitted.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client is the complaint backend API client.
type Client struct {
	BaseURL       string
	HTTP          *http.Client
	UserAgent     string
	Tokens        TokenSource
	RequestIDFunc func() string
}

// Compile-time interface implementation checks
var (
	_ Requester    = (*Client)(nil)
	_ PathResolver = (*Client)(nil)
	_ HTTPExecutor = (*Client)(nil)
)

// New creates a new API client. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		BaseURL:       normalizeBaseURL(baseURL),
		HTTP:          &http.Client{Timeout: DefaultTimeout},
		Tokens:        tokens,
		RequestIDFunc: uuid.NewString,
	}
}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL
}

// resourcePath returns the endpoint for a resource living under the api/ prefix.
func (c *Client) resourcePath(path string) string {
	return resourcePrefix + strings.TrimPrefix(path, "/")
}

// url resolves an endpoint against the base URL.
func (c *Client) url(endpoint string) string {
	return normalizeBaseURL(c.BaseURL) + strings.TrimPrefix(endpoint, "/")
}

// authRequired reports whether an endpoint must carry the Authorization header.
// Only login and registration are exempt.
func authRequired(endpoint string) bool {
	switch endpoint {
	case "login", "register":
		return false
	default:
		return true
	}
}

// do performs an HTTP request and decodes the response
func (c *Client) do(ctx context.Context, method, endpoint string, body any, result any) error {
	respBody, _, err := c.executeRequest(ctx, method, endpoint, body, authRequired(endpoint))
	if err != nil {
		return err
	}
	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)
		}
	}
	return nil
}

// doRaw performs an HTTP request and returns the raw response body
func (c *Client) doRaw(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	respBody, _, err := c.executeRequest(ctx, method, endpoint, body, authRequired(endpoint))
	return respBody, err
}

// executeRequest resolves the endpoint, attaches headers, and normalizes failures
// into *APIError. It returns the response body and status code.
func (c *Client) executeRequest(ctx context.Context, method, endpoint string, body any, includeAuth bool) ([]byte, int, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	reqURL := c.url(endpoint)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = c.buildHeaders(includeAuth)

	requestID := ""
	if c.RequestIDFunc != nil {
		requestID = c.RequestIDFunc()
		req.Header.Set("X-Request-Id", requestID)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", method, "endpoint", endpoint, "request_id", requestID, "error", err)
		}
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "request_id", requestID, "duration", time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := ExtractErrorDetail(respBody)
		return respBody, resp.StatusCode, &APIError{
			StatusCode: resp.StatusCode,
			Detail:     detail.Text,
			Source:     detail.Source,
			RequestID:  requestIDFromHeader(resp.Header, requestID),
		}
	}

	return respBody, resp.StatusCode, nil
}

func requestIDFromHeader(header http.Header, fallback string) string {
	if header != nil {
		if id := header.Get("X-Request-Id"); id != "" {
			return id
		}
	}
	return fallback
}

// confirmation converts an opaque confirmation body into a string.
// JSON string bodies are unquoted; anything else is returned verbatim.
func confirmation(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}
