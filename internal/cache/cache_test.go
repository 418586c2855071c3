package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/rohmanhakim/serp-aggregator/internal/cache"
	"github.com/rohmanhakim/serp-aggregator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullCache_AlwaysMisses(t *testing.T) {
	c := cache.NewNullCache()
	ctx := context.Background()

	_, ok := c.Get(ctx, "key")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "key", models.SearchResult{}, 0))
	_, ok = c.Get(ctx, "key")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Stats().Misses)
}

func TestInMemoryCache_SetThenGet(t *testing.T) {
	c := cache.NewInMemoryCache(time.Hour, 10)
	ctx := context.Background()

	result := models.SearchResult{Keyword: "golang"}
	require.NoError(t, c.Set(ctx, "k1", result, 0))

	got, ok := c.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, "golang", got.Keyword)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Sets)
}

func TestInMemoryCache_MissOnUnknownKey(t *testing.T) {
	c := cache.NewInMemoryCache(time.Hour, 10)
	_, ok := c.Get(context.Background(), "missing")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Stats().Misses)
}

func TestInMemoryCache_ExpiresByTTL(t *testing.T) {
	c := cache.NewInMemoryCache(time.Hour, 10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", models.SearchResult{}, 1))
	time.Sleep(1100 * time.Millisecond)

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Stats().Evictions)
}

func TestInMemoryCache_EvictsLeastRecentlyUsedAtCapacity(t *testing.T) {
	c := cache.NewInMemoryCache(time.Hour, 2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", models.SearchResult{Keyword: "a"}, 0))
	require.NoError(t, c.Set(ctx, "b", models.SearchResult{Keyword: "b"}, 0))

	// touch "a" so "b" becomes the least recently used
	_, _ = c.Get(ctx, "a")

	require.NoError(t, c.Set(ctx, "c", models.SearchResult{Keyword: "c"}, 0))

	_, okB := c.Get(ctx, "b")
	_, okA := c.Get(ctx, "a")
	_, okC := c.Get(ctx, "c")

	assert.False(t, okB)
	assert.True(t, okA)
	assert.True(t, okC)
	assert.Equal(t, 1, c.Stats().Evictions)
}

func TestInMemoryCache_Delete(t *testing.T) {
	c := cache.NewInMemoryCache(time.Hour, 10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", models.SearchResult{}, 0))
	assert.True(t, c.Delete(ctx, "k1"))
	assert.False(t, c.Delete(ctx, "k1"))

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)
}

func TestInMemoryCache_Clear(t *testing.T) {
	c := cache.NewInMemoryCache(time.Hour, 10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", models.SearchResult{}, 0))
	require.NoError(t, c.Set(ctx, "k2", models.SearchResult{}, 0))
	require.NoError(t, c.Clear(ctx))

	assert.Equal(t, 0, c.Stats().Size)
	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)
}

func TestInMemoryCache_PurgeExpiredRemovesOnlyExpired(t *testing.T) {
	c := cache.NewInMemoryCache(time.Hour, 10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", models.SearchResult{}, 1))
	require.NoError(t, c.Set(ctx, "long", models.SearchResult{}, 3600))
	time.Sleep(1100 * time.Millisecond)

	removed := c.PurgeExpired()
	assert.Equal(t, 1, removed)

	_, okShort := c.Get(ctx, "short")
	_, okLong := c.Get(ctx, "long")
	assert.False(t, okShort)
	assert.True(t, okLong)
}

func TestStats_HitRate(t *testing.T) {
	s := cache.Stats{Hits: 3, Misses: 1}
	assert.Equal(t, 0.75, s.HitRate())

	empty := cache.Stats{}
	assert.Equal(t, 0.0, empty.HitRate())
}
