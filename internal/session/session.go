// Package session tracks whether the CLI holds a bearer token.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNotFound is returned by a Store when no token has been saved.
var ErrNotFound = errors.New("no session token stored")

// Store persists the session token.
type Store interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	DeleteToken() error
}

// State is the session's authentication state.
type State string

const (
	Anonymous     State = "anonymous"
	Authenticated State = "authenticated"
)

// Session is the explicit session value passed to commands. It reads the
// persisted token once at construction and writes through to the store on
// Login and Logout.
type Session struct {
	store    Store
	token    string
	readOnly bool
}

// Load builds a Session from the token currently held by store.
// A missing token yields an anonymous session.
func Load(store Store) (*Session, error) {
	s := &Session{store: store}
	if store == nil {
		return s, nil
	}
	token, err := store.LoadToken()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s.token = strings.TrimSpace(token)
	return s, nil
}

// WithOverride returns a session that always reports token and never
// writes to a store. Used for tokens supplied through the environment.
func WithOverride(token string) *Session {
	return &Session{token: strings.TrimSpace(token), readOnly: true}
}

// Token returns the bearer token, or "" when anonymous.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

// IsAuthenticated reports whether a token is present. Expiry is not checked.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Session) State() State {
	if s.IsAuthenticated() {
		return Authenticated
	}
	return Anonymous
}

// ReadOnly reports whether the token came from an override.
func (s *Session) ReadOnly() bool {
	return s != nil && s.readOnly
}

// Login stores token and moves the session to Authenticated.
func (s *Session) Login(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("login returned an empty token")
	}
	if s.readOnly {
		return ErrReadOnly
	}
	if s.store != nil {
		if err := s.store.SaveToken(token); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}
	s.token = token
	return nil
}

// Logout clears the stored token and moves the session to Anonymous.
func (s *Session) Logout() error {
	if s.readOnly {
		return ErrReadOnly
	}
	if s.store != nil {
		if err := s.store.DeleteToken(); err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	s.token = ""
	return nil
}

// ErrReadOnly is returned when Login or Logout is called on an override session.
var ErrReadOnly = errors.New("session token is set by the environment and cannot be changed")

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) LoadToken() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ErrNotFound
	}
	return m.token, nil
}

func (m *MemoryStore) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) DeleteToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
