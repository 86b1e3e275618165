package config

import (
	"os"
	"strings"

	"github.com/kundeklager/kundeklager-cli/internal/api"
	"github.com/kundeklager/kundeklager-cli/internal/session"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	BaseURL string
}

// ResolveClientConfig resolves the backend URL. Precedence is the flag
// override, then KUNDEKLAGER_BASE_URL, then the URL saved at login, then
// api.DefaultBaseURL.
func ResolveClientConfig(baseURLOverride string) (ClientConfig, error) {
	if v := strings.TrimSpace(baseURLOverride); v != "" {
		return ClientConfig{BaseURL: v}, nil
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		return ClientConfig{BaseURL: v}, nil
	}
	saved, err := SavedBaseURL()
	if err != nil {
		return ClientConfig{}, err
	}
	if saved != "" {
		return ClientConfig{BaseURL: saved}, nil
	}
	return ClientConfig{BaseURL: api.DefaultBaseURL}, nil
}

// LoadSession builds the session for this invocation. KUNDEKLAGER_TOKEN wins
// over the keychain and yields a read-only session.
func LoadSession() (*session.Session, error) {
	if token := strings.TrimSpace(os.Getenv(EnvToken)); token != "" {
		return session.WithOverride(token), nil
	}
	return session.Load(KeyringStore{})
}
