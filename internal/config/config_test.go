package config_test

import (
	"testing"
	"time"

	"github.com/rohmanhakim/serp-aggregator/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefault_Build_Succeeds(t *testing.T) {
	s, err := config.WithDefault("test-key").Build()

	require.NoError(t, err)
	assert.Equal(t, "test-key", s.BrightDataAPIKey())
	assert.Equal(t, "serp_api1", s.BrightDataZone())
	assert.Equal(t, 25, s.DefaultMaxPages())
	assert.Equal(t, 50, s.DefaultConcurrency())
	assert.Equal(t, 2*time.Second, s.PollInterval())
	assert.Equal(t, 20, s.MaxPolls())
	assert.Equal(t, 3, s.ConsecutiveEmptyLimit())
	assert.True(t, s.RateLimitEnabled())
	assert.True(t, s.CacheEnabled())
	assert.Equal(t, config.CacheBackendMemory, s.CacheBackend())
}

func TestBuild_RejectsEmptyAPIKey(t *testing.T) {
	_, err := config.WithDefault("").Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestBuild_RejectsOutOfRangeMaxPages(t *testing.T) {
	_, err := config.WithDefault("key").WithDefaultMaxPages(500).Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestBuild_RejectsOutOfRangePollInterval(t *testing.T) {
	_, err := config.WithDefault("key").WithPollInterval(time.Millisecond).Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestBuild_RejectsRedisBackendWithoutURL(t *testing.T) {
	_, err := config.WithDefault("key").WithCacheBackend(config.CacheBackendRedis).Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestBuild_AcceptsRedisBackendWithURL(t *testing.T) {
	s, err := config.WithDefault("key").
		WithCacheBackend(config.CacheBackendRedis).
		WithRedisURL("redis://localhost:6379").
		Build()

	require.NoError(t, err)
	assert.Equal(t, config.CacheBackendRedis, s.CacheBackend())
}

func TestWithChaining_OverridesDefaults(t *testing.T) {
	s, err := config.WithDefault("key").
		WithDefaultCountry("gb").
		WithDefaultLanguage("fr").
		WithDefaultMaxPages(10).
		WithDefaultConcurrency(5).
		WithRateLimitEnabled(false).
		WithCacheEnabled(false).
		Build()

	require.NoError(t, err)
	assert.Equal(t, "gb", s.DefaultCountry())
	assert.Equal(t, "fr", s.DefaultLanguage())
	assert.Equal(t, 10, s.DefaultMaxPages())
	assert.Equal(t, 5, s.DefaultConcurrency())
	assert.False(t, s.RateLimitEnabled())
	assert.False(t, s.CacheEnabled())
}

func TestLoad_ReadsFromEnvironment(t *testing.T) {
	t.Setenv("SERP_BRIGHT_DATA_API_KEY", "env-key")
	t.Setenv("SERP_DEFAULT_MAX_PAGES", "10")

	s, err := config.Load("")

	require.NoError(t, err)
	assert.Equal(t, "env-key", s.BrightDataAPIKey())
	assert.Equal(t, 10, s.DefaultMaxPages())
}

func TestMaxPollTime(t *testing.T) {
	s, err := config.WithDefault("key").
		WithPollInterval(2 * time.Second).
		WithMaxPolls(20).
		Build()

	require.NoError(t, err)
	assert.Equal(t, 40*time.Second, s.MaxPollTime())
}
