package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when neither the fresh nor the requested stale key
// holds a value.
var ErrCacheMiss = errors.New("catalog: cache miss")

// Cache stores normalized catalog collections in redis. Each collection keeps
// a fresh key with a short TTL plus a stale companion key with a long TTL that
// is served only when the upstream cannot be reached.
type Cache struct {
	rdb      *redis.Client
	ttl      time.Duration
	staleTTL time.Duration
}

// NewCache builds a cache with the given fresh and stale TTLs.
func NewCache(rdb *redis.Client, ttl, staleTTL time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if staleTTL <= 0 {
		staleTTL = 24 * time.Hour
	}
	return &Cache{rdb: rdb, ttl: ttl, staleTTL: staleTTL}
}

func cacheKey(kind Kind) string {
	return "catalog:" + string(kind)
}

// Get returns the fresh copy of a collection, or ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, kind Kind) ([]Item, error) {
	return c.get(ctx, cacheKey(kind))
}

// GetStale returns the stale companion copy, or ErrCacheMiss.
func (c *Cache) GetStale(ctx context.Context, kind Kind) ([]Item, error) {
	return c.get(ctx, cacheKey(kind)+":stale")
}

func (c *Cache) get(ctx context.Context, key string) ([]Item, error) {
	if c.rdb == nil {
		return nil, ErrCacheMiss
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("catalog cache get %s: %w", key, err)
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("catalog cache decode %s: %w", key, err)
	}
	return items, nil
}

// Set stores a collection under both the fresh and stale keys.
func (c *Cache) Set(ctx context.Context, kind Kind, items []Item) error {
	if c.rdb == nil {
		return nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("catalog cache encode: %w", err)
	}
	key := cacheKey(kind)
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, key, data, c.ttl)
	pipe.Set(ctx, key+":stale", data, c.staleTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("catalog cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate drops the fresh copy so the next read refetches. The stale copy
// is kept as a safety net.
func (c *Cache) Invalidate(ctx context.Context, kind Kind) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, cacheKey(kind)).Err(); err != nil {
		return fmt.Errorf("catalog cache invalidate: %w", err)
	}
	return nil
}
