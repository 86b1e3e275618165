package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "kundeklager:cache:"

// RedisStore keeps cache entries in Redis so several machines can share them.
// Redis expires keys on its own; the entry TTL is also checked on read.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Backend = (*RedisStore)(nil)

// NewRedisStore connects to the Redis server at rawURL (redis://...) and
// prefixes keys with scope (see ScopeFor).
func NewRedisStore(ctx context.Context, rawURL, scope string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvRedisURL, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStoreWithClient(client, scope), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, scope string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: redisKeyPrefix + scope + ":",
	}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string, dst any) bool {
	if Disabled() {
		return false
	}
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Debug("redis cache read failed", "key", key, "error", err)
		}
		return false
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return false
	}
	if e.expired(time.Now()) {
		return false
	}
	return json.Unmarshal(e.Items, dst) == nil
}

func (s *RedisStore) Put(ctx context.Context, key string, items any, ttl time.Duration) {
	if Disabled() || ttl <= 0 {
		return
	}
	data, err := newEntry(items, ttl)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		slog.Debug("redis cache write failed", "key", key, "error", err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		slog.Debug("redis cache delete failed", "keys", keys, "error", err)
	}
}

func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) {
	keys, err := s.scan(ctx, s.key(prefix)+"*")
	if err != nil {
		slog.Debug("redis cache scan failed", "prefix", prefix, "error", err)
		return
	}
	if len(keys) > 0 {
		_ = s.client.Del(ctx, keys...).Err()
	}
}

// Clear removes every cache key this CLI wrote, across backend scopes.
func (s *RedisStore) Clear(ctx context.Context) error {
	keys, err := s.scan(ctx, redisKeyPrefix+"*")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Keys lists the cache keys in this scope, without the scope prefix.
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.scan(ctx, s.prefix+"*")
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, s.prefix)
	}
	return keys, nil
}

func (s *RedisStore) scan(ctx context.Context, pattern string) ([]string, error) {
	var cursor uint64
	keys := make([]string, 0)
	for {
		res, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, res...)
		if next == 0 {
			break
		}
		cursor = next
	}
	return keys, nil
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
