package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"

	"github.com/kundeklager/kundeklager-cli/internal/session"
)

const (
	serviceName = "kundeklager-cli"

	tokenKey   = "session_token"
	baseURLKey = "base_url"

	EnvBaseURL         = "KUNDEKLAGER_BASE_URL"
	EnvToken           = "KUNDEKLAGER_TOKEN"
	envKeyringBackend  = "KUNDEKLAGER_KEYRING_BACKEND"
	envKeyringPassword = "KUNDEKLAGER_KEYRING_PASSWORD"
	envCredentialsDir  = "KUNDEKLAGER_CREDENTIALS_DIR"

	keyringBackendAuto   = "auto"
	keyringBackendFile   = "file"
	keyringBackendSystem = "system"
)

// openKeyring is a package-level function for opening keyrings.
// It can be replaced in tests to use a mock keyring.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var userConfigDir = os.UserConfigDir

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// SetOpenKeyring allows replacing the keyring opener for testing.
// Returns a cleanup function that restores the original.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

// keyringConfig returns the keyring configuration
func keyringConfig() keyring.Config {
	cfg := keyring.Config{
		ServiceName: serviceName,
	}

	backend := keyringBackendMode()
	if backend == keyringBackendSystem {
		return cfg
	}

	// Auto mode still configures the file backend so keyring.Open can fall
	// through to encrypted file storage when native backends are missing.
	configureFileBackend(&cfg)

	// Headless Linux should bypass other backends and use encrypted file storage.
	if shouldForceFileBackend(runtime.GOOS, backend, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	return cfg
}

func keyringBackendMode() string {
	switch strings.ToLower(firstNonBlankEnv(envKeyringBackend)) {
	case "", keyringBackendAuto:
		return keyringBackendAuto
	case keyringBackendFile:
		return keyringBackendFile
	case keyringBackendSystem, "os", "native":
		return keyringBackendSystem
	default:
		return keyringBackendAuto
	}
}

func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	if backend == keyringBackendFile {
		return true
	}
	if backend != keyringBackendAuto {
		return false
	}
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

func configureFileBackend(cfg *keyring.Config) {
	cfg.FileDir = keyringFileDir()
	cfg.FilePasswordFunc = keyringFilePassword
}

// Dir returns the per-user configuration directory for the CLI.
func Dir() string {
	if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
		return filepath.Join(dir, serviceName)
	}
	if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
		return filepath.Join(home, ".config", serviceName)
	}
	return filepath.Join(os.TempDir(), serviceName)
}

func keyringFileDir() string {
	base := firstNonBlankEnv(envCredentialsDir)
	if base == "" {
		base = Dir()
	}
	return filepath.Join(base, "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if password, ok := os.LookupEnv(envKeyringPassword); ok && strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s when using file keyring in non-interactive environments", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}

func firstNonBlankEnv(keys ...string) string {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// KeyringStore persists the session token in the OS keychain.
type KeyringStore struct{}

var _ session.Store = KeyringStore{}

func (KeyringStore) LoadToken() (string, error) {
	data, err := getItem(tokenKey)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (KeyringStore) SaveToken(token string) error {
	return setItem(tokenKey, []byte(token))
}

func (KeyringStore) DeleteToken() error {
	return removeItem(tokenKey)
}

// SavedBaseURL returns the backend URL remembered from the last login, or "".
func SavedBaseURL() (string, error) {
	data, err := getItem(baseURLKey)
	if errors.Is(err, session.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SaveBaseURL remembers the backend URL used at login.
func SaveBaseURL(baseURL string) error {
	return setItem(baseURLKey, []byte(strings.TrimSpace(baseURL)))
}

// ForgetBaseURL removes the remembered backend URL.
func ForgetBaseURL() error {
	return removeItem(baseURLKey)
}

func getItem(key string) ([]byte, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	item, err := ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return item.Data, nil
}

func setItem(key string, data []byte) error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	if err := ring.Set(keyring.Item{Key: key, Data: data, Label: serviceName + " " + key}); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func removeItem(key string) error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	if err := ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
