package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Settings
// SERP Aggregator configuration.
// Responsibilities:
// - Hold every tunable the fetcher, scheduler, limiter and cache need
// - Load from environment variables (SERP_ prefix) and an optional file via viper
// - Validate eagerly so misconfiguration fails at startup, not mid-crawl
type Settings struct {
	//===============
	// API configuration
	//===============
	brightDataAPIKey string
	brightDataZone   string
	apiBaseURL       string

	//===============
	// Search defaults
	//===============
	defaultCountry     string
	defaultLanguage    string
	defaultMaxPages    int
	defaultConcurrency int

	//===============
	// Polling
	//===============
	pollInterval  time.Duration
	maxPolls      int
	requestTimeout time.Duration

	//===============
	// Retry
	//===============
	maxRetries   int
	retryBackoff float64

	//===============
	// Rate limiting
	//===============
	rateLimitEnabled bool
	rateLimitRPS     float64
	rateLimitBurst   int

	//===============
	// Caching
	//===============
	cacheEnabled bool
	cacheTTL     time.Duration
	cacheBackend string
	redisURL     string

	//===============
	// Early termination
	//===============
	consecutiveEmptyLimit int
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// WithDefault returns a Settings populated with the same defaults the
// environment loader falls back to when a variable is unset.
func WithDefault(brightDataAPIKey string) *Settings {
	return &Settings{
		brightDataAPIKey:      brightDataAPIKey,
		brightDataZone:        "serp_api1",
		apiBaseURL:            "https://api.brightdata.com",
		defaultCountry:        "us",
		defaultLanguage:       "en",
		defaultMaxPages:       25,
		defaultConcurrency:    50,
		pollInterval:          2 * time.Second,
		maxPolls:              20,
		requestTimeout:        30 * time.Second,
		maxRetries:            3,
		retryBackoff:          2.0,
		rateLimitEnabled:      true,
		rateLimitRPS:          5.0,
		rateLimitBurst:        10,
		cacheEnabled:          true,
		cacheTTL:              time.Hour,
		cacheBackend:          CacheBackendMemory,
		redisURL:              "",
		consecutiveEmptyLimit: 3,
	}
}

// Load reads Settings from an optional config file (when configFile is
// non-empty) and from environment variables prefixed SERP_; an environment
// variable takes precedence over the same key in the file. The API key is
// mandatory; Build() rejects an empty one.
func Load(configFile string) (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("SERP")
	v.AutomaticEnv()

	v.SetDefault("bright_data_zone", "serp_api1")
	v.SetDefault("api_base_url", "https://api.brightdata.com")
	v.SetDefault("default_country", "us")
	v.SetDefault("default_language", "en")
	v.SetDefault("default_max_pages", 25)
	v.SetDefault("default_concurrency", 50)
	v.SetDefault("poll_interval", 2.0)
	v.SetDefault("max_polls", 20)
	v.SetDefault("request_timeout", 30.0)
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_backoff", 2.0)
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_rps", 5.0)
	v.SetDefault("rate_limit_burst", 10)
	v.SetDefault("cache_enabled", true)
	v.SetDefault("cache_ttl", 3600)
	v.SetDefault("cache_backend", CacheBackendMemory)
	v.SetDefault("redis_url", "")
	v.SetDefault("consecutive_empty_limit", 3)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
		}
	}

	s := Settings{
		brightDataAPIKey:      v.GetString("bright_data_api_key"),
		brightDataZone:        v.GetString("bright_data_zone"),
		apiBaseURL:            v.GetString("api_base_url"),
		defaultCountry:        v.GetString("default_country"),
		defaultLanguage:       v.GetString("default_language"),
		defaultMaxPages:       v.GetInt("default_max_pages"),
		defaultConcurrency:    v.GetInt("default_concurrency"),
		pollInterval:          time.Duration(v.GetFloat64("poll_interval") * float64(time.Second)),
		maxPolls:              v.GetInt("max_polls"),
		requestTimeout:        time.Duration(v.GetFloat64("request_timeout") * float64(time.Second)),
		maxRetries:            v.GetInt("max_retries"),
		retryBackoff:          v.GetFloat64("retry_backoff"),
		rateLimitEnabled:      v.GetBool("rate_limit_enabled"),
		rateLimitRPS:          v.GetFloat64("rate_limit_rps"),
		rateLimitBurst:        v.GetInt("rate_limit_burst"),
		cacheEnabled:          v.GetBool("cache_enabled"),
		cacheTTL:              time.Duration(v.GetInt("cache_ttl")) * time.Second,
		cacheBackend:          v.GetString("cache_backend"),
		redisURL:              v.GetString("redis_url"),
		consecutiveEmptyLimit: v.GetInt("consecutive_empty_limit"),
	}

	return s.Build()
}

func (s *Settings) WithBrightDataZone(zone string) *Settings {
	s.brightDataZone = zone
	return s
}

func (s *Settings) WithAPIBaseURL(url string) *Settings {
	s.apiBaseURL = url
	return s
}

func (s *Settings) WithDefaultCountry(country string) *Settings {
	s.defaultCountry = country
	return s
}

func (s *Settings) WithDefaultLanguage(language string) *Settings {
	s.defaultLanguage = language
	return s
}

func (s *Settings) WithDefaultMaxPages(pages int) *Settings {
	s.defaultMaxPages = pages
	return s
}

func (s *Settings) WithDefaultConcurrency(concurrency int) *Settings {
	s.defaultConcurrency = concurrency
	return s
}

func (s *Settings) WithPollInterval(interval time.Duration) *Settings {
	s.pollInterval = interval
	return s
}

func (s *Settings) WithMaxPolls(maxPolls int) *Settings {
	s.maxPolls = maxPolls
	return s
}

func (s *Settings) WithRequestTimeout(timeout time.Duration) *Settings {
	s.requestTimeout = timeout
	return s
}

func (s *Settings) WithMaxRetries(maxRetries int) *Settings {
	s.maxRetries = maxRetries
	return s
}

func (s *Settings) WithRetryBackoff(backoff float64) *Settings {
	s.retryBackoff = backoff
	return s
}

func (s *Settings) WithRateLimitEnabled(enabled bool) *Settings {
	s.rateLimitEnabled = enabled
	return s
}

func (s *Settings) WithRateLimitRPS(rps float64) *Settings {
	s.rateLimitRPS = rps
	return s
}

func (s *Settings) WithRateLimitBurst(burst int) *Settings {
	s.rateLimitBurst = burst
	return s
}

func (s *Settings) WithCacheEnabled(enabled bool) *Settings {
	s.cacheEnabled = enabled
	return s
}

func (s *Settings) WithCacheTTL(ttl time.Duration) *Settings {
	s.cacheTTL = ttl
	return s
}

func (s *Settings) WithCacheBackend(backend string) *Settings {
	s.cacheBackend = backend
	return s
}

func (s *Settings) WithRedisURL(url string) *Settings {
	s.redisURL = url
	return s
}

func (s *Settings) WithConsecutiveEmptyLimit(limit int) *Settings {
	s.consecutiveEmptyLimit = limit
	return s
}

// Build validates the accumulated settings and returns an immutable copy.
func (s *Settings) Build() (Settings, error) {
	if s.brightDataAPIKey == "" {
		return Settings{}, fmt.Errorf("%w: bright_data_api_key is required", ErrInvalidConfig)
	}
	if s.defaultMaxPages < 1 || s.defaultMaxPages > 100 {
		return Settings{}, fmt.Errorf("%w: default_max_pages must be in [1,100]", ErrInvalidConfig)
	}
	if s.defaultConcurrency < 1 || s.defaultConcurrency > 200 {
		return Settings{}, fmt.Errorf("%w: default_concurrency must be in [1,200]", ErrInvalidConfig)
	}
	if s.pollInterval < 500*time.Millisecond || s.pollInterval > 10*time.Second {
		return Settings{}, fmt.Errorf("%w: poll_interval must be in [0.5s,10s]", ErrInvalidConfig)
	}
	if s.maxPolls < 1 || s.maxPolls > 100 {
		return Settings{}, fmt.Errorf("%w: max_polls must be in [1,100]", ErrInvalidConfig)
	}
	if s.consecutiveEmptyLimit < 1 || s.consecutiveEmptyLimit > 10 {
		return Settings{}, fmt.Errorf("%w: consecutive_empty_limit must be in [1,10]", ErrInvalidConfig)
	}
	if s.cacheBackend != CacheBackendMemory && s.cacheBackend != CacheBackendRedis {
		return Settings{}, fmt.Errorf("%w: cache_backend must be memory or redis", ErrInvalidConfig)
	}
	if s.cacheBackend == CacheBackendRedis && s.redisURL == "" {
		return Settings{}, fmt.Errorf("%w: redis_url is required when cache_backend=redis", ErrInvalidConfig)
	}

	return *s, nil
}

func (s Settings) BrightDataAPIKey() string    { return s.brightDataAPIKey }
func (s Settings) BrightDataZone() string      { return s.brightDataZone }
func (s Settings) APIBaseURL() string          { return s.apiBaseURL }
func (s Settings) DefaultCountry() string      { return s.defaultCountry }
func (s Settings) DefaultLanguage() string     { return s.defaultLanguage }
func (s Settings) DefaultMaxPages() int        { return s.defaultMaxPages }
func (s Settings) DefaultConcurrency() int     { return s.defaultConcurrency }
func (s Settings) PollInterval() time.Duration { return s.pollInterval }
func (s Settings) MaxPolls() int               { return s.maxPolls }
func (s Settings) RequestTimeout() time.Duration { return s.requestTimeout }
func (s Settings) MaxRetries() int             { return s.maxRetries }
func (s Settings) RetryBackoff() float64       { return s.retryBackoff }
func (s Settings) RateLimitEnabled() bool      { return s.rateLimitEnabled }
func (s Settings) RateLimitRPS() float64       { return s.rateLimitRPS }
func (s Settings) RateLimitBurst() int         { return s.rateLimitBurst }
func (s Settings) CacheEnabled() bool          { return s.cacheEnabled }
func (s Settings) CacheTTL() time.Duration     { return s.cacheTTL }
func (s Settings) CacheBackend() string        { return s.cacheBackend }
func (s Settings) RedisURL() string            { return s.redisURL }
func (s Settings) ConsecutiveEmptyLimit() int  { return s.consecutiveEmptyLimit }

// MaxPollTime is the maximum total polling time for a single page fetch.
func (s Settings) MaxPollTime() time.Duration {
	return time.Duration(int64(s.pollInterval) * int64(s.maxPolls))
}
