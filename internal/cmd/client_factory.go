package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kundeklager/kundeklager-cli/internal/api"
	"github.com/kundeklager/kundeklager-cli/internal/cache"
	"github.com/kundeklager/kundeklager-cli/internal/config"
	"github.com/kundeklager/kundeklager-cli/internal/querycache"
	"github.com/kundeklager/kundeklager-cli/internal/session"
)

type sessionKey struct{}

func withSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// sessionFrom returns the session attached by the login gate, if any.
func sessionFrom(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(sessionKey{}).(*session.Session); ok {
		return sess
	}
	return nil
}

// requireSession loads the session and passes it through the login gate.
// The rejected command line travels in the error so login can resume it.
func requireSession(cmd *cobra.Command) (*session.Session, error) {
	sess, err := config.LoadSession()
	if err != nil {
		return nil, err
	}
	if err := session.Gate(sess, joinArgs(invocation)); err != nil {
		return nil, err
	}
	return sess, nil
}

type clientFactory struct {
	timeout   time.Duration
	userAgent string
	baseURL   string
	noCache   bool
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("kundeklager-cli/%s", version),
		baseURL:   flags.BaseURL,
		noCache:   flags.NoCache,
	}
}

// anonymous returns a client without a token, for login and registration.
func (f *clientFactory) anonymous() (*api.Client, error) {
	cfg, err := config.ResolveClientConfig(f.baseURL)
	if err != nil {
		return nil, err
	}
	return f.newClient(cfg, nil), nil
}

// authenticated returns a cached client for the session the gate attached.
// The returned close func releases the cache backend.
func (f *clientFactory) authenticated(ctx context.Context) (*querycache.Client, func(), error) {
	sess := sessionFrom(ctx)
	if sess == nil {
		var err error
		if sess, err = config.LoadSession(); err != nil {
			return nil, nil, err
		}
	}
	cfg, err := config.ResolveClientConfig(f.baseURL)
	if err != nil {
		return nil, nil, err
	}
	client := f.newClient(cfg, sess)
	store, closeStore := f.cacheBackend(ctx, cache.ScopeFor(client.BaseURL, sess.Token()))
	return querycache.New(client, store), closeStore, nil
}

func (f *clientFactory) newClient(cfg config.ClientConfig, tokens api.TokenSource) *api.Client {
	client := api.New(cfg.BaseURL, tokens)
	if f.timeout > 0 {
		client.HTTP.Timeout = f.timeout
	}
	if f.userAgent != "" {
		client.UserAgent = f.userAgent
	}
	return client
}

// cacheBackend selects Redis when KUNDEKLAGER_REDIS_URL is set and the file
// store otherwise, both limited to scope. A nil backend disables caching.
func (f *clientFactory) cacheBackend(ctx context.Context, scope string) (cache.Backend, func()) {
	noop := func() {}
	if f.noCache || cache.Disabled() {
		return nil, noop
	}
	if redisURL := strings.TrimSpace(os.Getenv(cache.EnvRedisURL)); redisURL != "" {
		store, err := cache.NewRedisStore(ctx, redisURL, scope)
		if err == nil {
			return store, func() { _ = store.Close() }
		}
		slog.Warn("redis cache unavailable, using file cache", "error", err)
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		slog.Debug("cache directory unavailable", "error", err)
		return nil, noop
	}
	return cache.NewFileStore(dir, scope), noop
}

// dropSessionCache removes every cached response written under token.
func (f *clientFactory) dropSessionCache(ctx context.Context, baseURL, token string) {
	if token == "" {
		return
	}
	store, closeStore := f.cacheBackend(ctx, cache.ScopeFor(baseURL, token))
	defer closeStore()
	if store != nil {
		store.DeletePrefix(ctx, "")
	}
}

// withClient runs fn with an authenticated client and releases it afterwards.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client *querycache.Client) error) error {
	ctx := cmd.Context()
	client, closeFn, err := newClientFactory().authenticated(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, client)
}
