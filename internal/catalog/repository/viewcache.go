package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const viewCacheGenKey = "catalog:views:gen"

// ViewCache caches serialized derived-view responses in Redis.
// Entries are namespaced by a generation counter; bumping the generation on
// rebuild invalidates every cached view at once. A nil client disables the
// cache entirely.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewCache creates a view cache. Client may be nil to disable caching.
func NewViewCache(client *redis.Client, ttl time.Duration) *ViewCache {
	return &ViewCache{client: client, ttl: ttl}
}

// Enabled reports whether caching is active.
func (c *ViewCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *ViewCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, viewCacheGenKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return gen, nil
}

func (c *ViewCache) key(gen int64, view string) string {
	return fmt.Sprintf("catalog:views:%d:%s", gen, view)
}

// Get returns the cached payload for a view key, if present.
// Cache errors degrade to a miss.
func (c *ViewCache) Get(ctx context.Context, view string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}

	gen, err := c.generation(ctx)
	if err != nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, c.key(gen, view)).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Set stores the payload for a view key under the current generation.
func (c *ViewCache) Set(ctx context.Context, view string, payload []byte) {
	if !c.Enabled() {
		return
	}

	gen, err := c.generation(ctx)
	if err != nil {
		return
	}

	_ = c.client.Set(ctx, c.key(gen, view), payload, c.ttl).Err()
}

// Invalidate drops every cached view by advancing the generation counter.
// Stale entries expire through their TTL.
func (c *ViewCache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	_ = c.client.Incr(ctx, viewCacheGenKey).Err()
}
