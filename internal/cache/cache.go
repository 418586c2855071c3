package cache

import (
	"context"
	"sync"

	"github.com/rohmanhakim/serp-aggregator/internal/models"
)

// Cache
// Specialized component to store merged search results keyed by query
// fingerprint.
// Responsibilities:
// - Serve Get/Set/Delete/Clear against whatever backend is configured
// - Expose Stats for observability, independent of backend
// - Never surface a backend transport failure to the caller: a cache
//   miss and a cache error must look identical from the outside
type Cache interface {
	Get(ctx context.Context, key string) (models.SearchResult, bool)
	Set(ctx context.Context, key string, value models.SearchResult, ttlSeconds int) error
	Delete(ctx context.Context, key string) bool
	Clear(ctx context.Context) error
	Stats() Stats
}

// NullCache is a no-op cache used when caching is disabled.
type NullCache struct {
	mu    sync.Mutex
	stats Stats
}

func NewNullCache() *NullCache {
	return &NullCache{}
}

func (c *NullCache) Get(ctx context.Context, key string) (models.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Misses++
	return models.SearchResult{}, false
}

func (c *NullCache) Set(ctx context.Context, key string, value models.SearchResult, ttlSeconds int) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) bool {
	return false
}

func (c *NullCache) Clear(ctx context.Context) error {
	return nil
}

func (c *NullCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
