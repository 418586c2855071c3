package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rohmanhakim/serp-aggregator/internal/models"
)

// RedisCache is a Redis-backed cache for multi-process/distributed
// deployments. Every backend failure degrades to a miss on Get, a silent
// no-op on Set/Delete/Clear: callers must never have to special-case a
// Redis outage.
type RedisCache struct {
	client     *redis.Client
	keyPrefix  string
	defaultTTL time.Duration

	mu    sync.Mutex
	stats Stats
}

func NewRedisCache(client *redis.Client, keyPrefix string, defaultTTL time.Duration) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = "serp:"
	}
	return &RedisCache{
		client:     client,
		keyPrefix:  keyPrefix,
		defaultTTL: defaultTTL,
	}
}

func (c *RedisCache) makeKey(key string) string {
	return c.keyPrefix + key
}

func (c *RedisCache) Get(ctx context.Context, key string) (models.SearchResult, bool) {
	data, err := c.client.Get(ctx, c.makeKey(key)).Bytes()
	if err != nil {
		c.recordMiss()
		return models.SearchResult{}, false
	}

	var result models.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.recordMiss()
		return models.SearchResult{}, false
	}

	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
	return result, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value models.SearchResult, ttlSeconds int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}

	ttl := c.defaultTTL
	if ttlSeconds != 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}

	if err := c.client.Set(ctx, c.makeKey(key), data, ttl).Err(); err != nil {
		return nil
	}

	c.mu.Lock()
	c.stats.Sets++
	c.mu.Unlock()
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) bool {
	n, err := c.client.Del(ctx, c.makeKey(key)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

func (c *RedisCache) Clear(ctx context.Context) error {
	keys, err := c.client.Keys(ctx, c.keyPrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return nil
	}
	c.client.Del(ctx, keys...)
	return nil
}

func (c *RedisCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *RedisCache) recordMiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Misses++
}

// Close releases the underlying Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
