package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/otramalaga/civicmap/internal/logger"
)

// Backend is the minimal key/value surface the cache needs. The production
// implementation is Redis; tests substitute an in-memory map.
type Backend interface {
	// Get returns the stored bytes, or (nil, nil) on a clean miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Scan returns every stored key with the given prefix.
	Scan(ctx context.Context, prefix string) ([]string, error)
}

// envelope is the stored shape: the payload plus its fetch timestamp in
// epoch milliseconds. The Redis TTL already enforces the window; FetchedAt
// is kept so a stale or tampered entry is still detectable.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// Cache is the time-boxed response cache for idempotent GET payloads.
// Every failure path degrades to a miss; callers never see a cache error.
type Cache struct {
	backend Backend
	window  time.Duration
	logger  logger.Logger
	now     func() time.Time
}

// New builds a Cache with the given expiration window.
func New(backend Backend, window time.Duration, log logger.Logger) *Cache {
	return &Cache{
		backend: backend,
		window:  window,
		logger:  log,
		now:     time.Now,
	}
}

// Get returns the cached payload for key, or ok=false when the entry is
// absent, expired or unreadable. Stale and corrupt entries are purged.
func (c *Cache) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	raw, err := c.backend.Get(ctx, Key(key))
	if err != nil {
		c.logger.Debug("cache read failed, treating as miss",
			logger.String("key", key),
			logger.Error(err))
		return nil, false
	}
	if raw == nil {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Debug("corrupt cache entry, purging",
			logger.String("key", key),
			logger.Error(err))
		c.purge(ctx, key)
		return nil, false
	}

	fetchedAt := time.UnixMilli(env.Timestamp)
	if c.now().Sub(fetchedAt) >= c.window {
		c.purge(ctx, key)
		return nil, false
	}

	return env.Data, true
}

// Set stores payload under key with the current timestamp, overwriting any
// prior entry. Storage errors are swallowed.
func (c *Cache) Set(ctx context.Context, key string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Warn("cache payload not serializable",
			logger.String("key", key),
			logger.Error(err))
		return
	}

	raw, err := json.Marshal(envelope{
		Data:      data,
		Timestamp: c.now().UnixMilli(),
	})
	if err != nil {
		return
	}

	if err := c.backend.Set(ctx, Key(key), raw, c.window); err != nil {
		c.logger.Warn("cache write failed",
			logger.String("key", key),
			logger.Error(err))
	}
}

// GetInto decodes the cached payload for key into out.
// A payload that no longer decodes counts as a miss and is purged.
func (c *Cache) GetInto(ctx context.Context, key string, out any) bool {
	data, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Debug("cache payload no longer decodes, purging",
			logger.String("key", key),
			logger.Error(err))
		c.purge(ctx, key)
		return false
	}
	return true
}

// InvalidateAll removes every tracked entry so the next read is a forced
// network fetch. Called after any create/update/delete.
func (c *Cache) InvalidateAll(ctx context.Context) {
	keys, err := c.backend.Scan(ctx, KeyPrefix)
	if err != nil {
		c.logger.Warn("cache scan failed during invalidation", logger.Error(err))
		// Fall back to the fixed key set.
		keys = []string{Key(KeyBookmarks), Key(KeyCategories), Key(KeyTags)}
	}
	if len(keys) == 0 {
		return
	}
	if err := c.backend.Del(ctx, keys...); err != nil {
		c.logger.Warn("cache invalidation failed", logger.Error(err))
		return
	}
	c.logger.Debug("cache invalidated", logger.Int("keys", len(keys)))
}

func (c *Cache) purge(ctx context.Context, key string) {
	if err := c.backend.Del(ctx, Key(key)); err != nil {
		c.logger.Debug("cache purge failed",
			logger.String("key", key),
			logger.Error(err))
	}
}

// RedisBackend adapts a go-redis client to the Backend interface.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps an established Redis client.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // clean miss
		}
		return nil, err
	}
	return data, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

func (b *RedisBackend) Del(ctx context.Context, keys ...string) error {
	return b.client.Del(ctx, keys...).Err()
}

func (b *RedisBackend) Scan(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := b.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
