package api

import "net/http"

const defaultUserAgent = "kundeklager-cli"

// buildHeaders returns the headers sent with every request. When includeAuth is
// true and the token source yields a non-empty token, a bearer Authorization
// header is attached. An empty token never produces the header.
func (c *Client) buildHeaders(includeAuth bool) http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")

	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	h.Set("User-Agent", ua)

	if includeAuth && c.Tokens != nil {
		if token := c.Tokens.Token(); token != "" {
			h.Set("Authorization", "Bearer "+token)
		}
	}
	return h
}
