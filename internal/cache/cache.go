// Package cache stores API responses for a short time.
//
// Entries are JSON, scoped per backend URL and session token, and carry their
// own TTL.
// Two backends exist: files under the user cache directory (default) and
// Redis when KUNDEKLAGER_REDIS_URL is set. Disable with KUNDEKLAGER_NO_CACHE=1.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	EnvNoCache  = "KUNDEKLAGER_NO_CACHE"
	EnvCacheDir = "KUNDEKLAGER_CACHE_DIR"
	EnvRedisURL = "KUNDEKLAGER_REDIS_URL"

	appDir = "kundeklager-cli"
)

// Backend reads and writes cache entries by key.
// Misses and write failures are not errors: callers fall back to the network.
type Backend interface {
	Get(ctx context.Context, key string, dst any) bool
	Put(ctx context.Context, key string, items any, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	DeletePrefix(ctx context.Context, prefix string)
	Clear(ctx context.Context) error
}

type entry struct {
	CachedAt  time.Time       `json:"cached_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	Items     json.RawMessage `json:"items"`
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

func newEntry(items any, ttl time.Duration) ([]byte, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return json.Marshal(entry{CachedAt: now, ExpiresAt: now.Add(ttl), Items: raw})
}

// ScopeFor returns the short hash identifying a backend URL and session token
// in cache keys. Entries written under one token are never read under another.
func ScopeFor(baseURL, token string) string {
	h := sha256.New()
	h.Write([]byte(strings.TrimSuffix(strings.TrimSpace(baseURL), "/")))
	h.Write([]byte{0})
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil)[:6])
}

// FileStore keeps one file per key in a directory.
type FileStore struct {
	dir   string
	scope string
	now   func() time.Time
}

var _ Backend = (*FileStore)(nil)

// NewFileStore creates a file-backed cache for one scope (see ScopeFor).
// dir is the cache directory (typically from DefaultDir).
func NewFileStore(dir, scope string) *FileStore {
	return &FileStore{dir: dir, scope: scope, now: time.Now}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", sanitizeKey(key), s.scope))
}

// Get loads cached items into dst. Returns false on miss (no file, expired, disabled).
func (s *FileStore) Get(_ context.Context, key string, dst any) bool {
	if Disabled() {
		return false
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if e.expired(s.now()) {
		return false
	}
	return json.Unmarshal(e.Items, dst) == nil
}

// Put writes items to the cache. Silently no-ops on error or when disabled.
func (s *FileStore) Put(_ context.Context, key string, items any, ttl time.Duration) {
	if Disabled() || ttl <= 0 {
		return
	}
	data, err := newEntry(items, ttl)
	if err != nil {
		return
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return
	}

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, path)
}

// Delete removes the given keys.
func (s *FileStore) Delete(_ context.Context, keys ...string) {
	for _, key := range keys {
		_ = os.Remove(s.path(key))
	}
}

// DeletePrefix removes every key in this scope starting with prefix.
// An empty prefix removes the whole scope.
func (s *FileStore) DeletePrefix(_ context.Context, prefix string) {
	if prefix != "" {
		prefix = sanitizeKey(prefix)
	}
	suffix := "_" + s.scope + ".json"
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, suffix) || !strings.HasPrefix(name, prefix) {
			continue
		}
		_ = os.Remove(filepath.Join(s.dir, name))
	}
}

// Clear removes all cache files from the directory, across scopes.
// Only files matching the cache filename scheme are touched.
func (s *FileStore) Clear(_ context.Context) error {
	return ClearDir(s.dir)
}

// ClearDir removes cache files from dir.
func ClearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !isCacheFilename(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// DefaultDir returns the platform-appropriate cache directory, honoring
// KUNDEKLAGER_CACHE_DIR.
func DefaultDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvCacheDir)); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDir), nil
}

// Disabled reports whether caching is turned off through the environment.
func Disabled() bool {
	return os.Getenv(EnvNoCache) != ""
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '-'
		}
	}, key)
}

func isCacheFilename(name string) bool {
	// Expected: "<key>_<12hex>.json"
	if filepath.Ext(name) != ".json" {
		return false
	}
	base := strings.TrimSuffix(name, ".json")
	idx := strings.LastIndex(base, "_")
	if idx <= 0 {
		return false
	}
	scope := base[idx+1:]
	return len(scope) == 12 && isHex(scope)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
