package api

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return login(ctx, c, LoginRequest{Email: email, Password: password})
}

func login(ctx context.Context, r Requester, req LoginRequest) (string, error) {
	var result struct {
		Token string `json:"token"`
	}
	if err := r.do(ctx, http.MethodPost, "login", req, &result); err != nil {
		return "", err
	}
	if result.Token == "" {
		return "", fmt.Errorf("unexpected API response format: login response has no token")
	}
	return result.Token, nil
}

// Register creates a user and returns the new user ID.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (int, error) {
	return register(ctx, c, req)
}

func register(ctx context.Context, r Requester, req RegisterRequest) (int, error) {
	body := map[string]string{
		"email":    req.Email,
		"name":     FullName(req.FirstName, req.LastName),
		"password": req.Password,
	}
	var result struct {
		UserID int `json:"userid"`
	}
	if err := r.do(ctx, http.MethodPost, "register", body, &result); err != nil {
		return 0, err
	}
	return result.UserID, nil
}

// FullName joins first and last name with a single space, as given.
func FullName(first, last string) string {
	return first + " " + last
}
