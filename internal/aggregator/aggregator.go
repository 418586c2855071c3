package aggregator

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rohmanhakim/serp-aggregator/internal/cache"
	"github.com/rohmanhakim/serp-aggregator/internal/config"
	"github.com/rohmanhakim/serp-aggregator/internal/fetcher"
	"github.com/rohmanhakim/serp-aggregator/internal/fingerprint"
	"github.com/rohmanhakim/serp-aggregator/internal/models"
	"github.com/rohmanhakim/serp-aggregator/internal/progress"
	"github.com/rohmanhakim/serp-aggregator/internal/scheduler"
	"github.com/rohmanhakim/serp-aggregator/pkg/failure"
	"github.com/rohmanhakim/serp-aggregator/pkg/limiter"
	"github.com/rohmanhakim/serp-aggregator/pkg/retry"
	"github.com/rohmanhakim/serp-aggregator/pkg/timeutil"
)

/*
 Aggregator is the public entrypoint for the package: it owns the HTTP
 client lifecycle and wires settings, cache, rate limiter and progress
 reporter into a Scheduler for each search.

 Responsibilities:
 - Own connect/close of the underlying HTTP transport
 - Apply per-call option overrides on top of configured defaults
 - Consult the cache before fetching, and populate it after a clean fetch
 - Never cache a result that carries errors
*/
type Aggregator struct {
	settings    config.Settings
	reporter    progress.Reporter
	cache       cache.Cache
	rateLimiter limiter.RateLimiter
	retryParam  retry.RetryParam

	mu        sync.Mutex
	connected bool
	fetcher   fetcher.Fetcher
}

// Option customizes an Aggregator at construction time.
type Option func(*Aggregator)

func WithReporter(reporter progress.Reporter) Option {
	return func(a *Aggregator) { a.reporter = reporter }
}

func WithCache(c cache.Cache) Option {
	return func(a *Aggregator) { a.cache = c }
}

func WithRateLimiter(rl limiter.RateLimiter) Option {
	return func(a *Aggregator) { a.rateLimiter = rl }
}

func WithRetryParam(param retry.RetryParam) Option {
	return func(a *Aggregator) { a.retryParam = param }
}

// New builds an Aggregator from settings. Call Connect before the first
// Search.
func New(settings config.Settings, opts ...Option) *Aggregator {
	a := &Aggregator{
		settings:   settings,
		reporter:   progress.NewNullReporter(),
		retryParam: defaultRetryParam(settings),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.cache == nil {
		a.cache = defaultCache(settings)
	}
	if a.rateLimiter == nil {
		a.rateLimiter = defaultRateLimiter(settings)
	}

	return a
}

func defaultRetryParam(settings config.Settings) retry.RetryParam {
	return retry.NewRetryParam(
		time.Second,
		500*time.Millisecond,
		time.Now().UnixNano(),
		settings.MaxRetries()+1,
		timeutil.NewBackoffParam(time.Second, settings.RetryBackoff(), 30*time.Second),
	)
}

func defaultCache(settings config.Settings) cache.Cache {
	if !settings.CacheEnabled() {
		return cache.NewNullCache()
	}
	return cache.NewInMemoryCache(settings.CacheTTL(), 1000)
}

func defaultRateLimiter(settings config.Settings) limiter.RateLimiter {
	if !settings.RateLimitEnabled() {
		return limiter.NewNullRateLimiter()
	}
	return limiter.NewAdaptiveRateLimiter(
		settings.RateLimitRPS(),
		0.5,
		20,
		settings.RateLimitBurst(),
		5,
		30*time.Second,
		3,
	)
}

// Connect opens the underlying HTTP transport. Safe to call more than
// once.
func (a *Aggregator) Connect() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.connected {
		return nil
	}
	httpClient := &http.Client{Timeout: a.settings.RequestTimeout()}
	a.fetcher = fetcher.NewBrightDataFetcher(a.settings, a.rateLimiter)
	a.fetcher.Init(httpClient)
	a.connected = true
	return nil
}

// Close releases the cache and transport. Safe to call more than once.
func (a *Aggregator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connected = false
	if closer, ok := a.cache.(*cache.RedisCache); ok {
		return closer.Close()
	}
	return nil
}

func (a *Aggregator) isConnected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connected
}

// Search executes a single query, consulting the cache first and
// populating it afterward when the fetch completed without errors.
func (a *Aggregator) Search(ctx context.Context, query string, opts SearchOptions) (models.SearchResult, failure.ClassifiedError) {
	if !a.isConnected() {
		return models.SearchResult{}, &ConfigError{Message: "call Connect before Search", Cause: ErrCauseNotConnected}
	}

	maxPages := orDefaultInt(opts.MaxPages, a.settings.DefaultMaxPages())
	concurrency := orDefaultInt(opts.Concurrency, a.settings.DefaultConcurrency())
	country := orDefaultString(opts.Country, a.settings.DefaultCountry())
	language := orDefaultString(opts.Language, a.settings.DefaultLanguage())

	params := models.NewSearchParams(query, country, language, maxPages, concurrency, models.SearchTypeWeb)
	if validationErr := params.Validate(); validationErr != nil {
		return models.SearchResult{}, validationErr
	}

	var cacheKey string
	if opts.UseCache {
		key, err := fingerprint.Query(params.Query(), country, language, maxPages)
		if err == nil {
			cacheKey = key
			if cached, ok := a.cache.Get(ctx, cacheKey); ok {
				a.reporter.OnCacheHit(params.Query())
				return cached, nil
			}
		}
	}

	sched := scheduler.NewScheduler(a.fetcher, a.retryParam, a.reporter, a.settings.ConsecutiveEmptyLimit())
	result := sched.FetchAllPages(ctx, params.Query(), maxPages, concurrency, country, language, opts.RawCollector)

	if opts.UseCache && cacheKey != "" && !result.HasErrors() {
		_ = a.cache.Set(ctx, cacheKey, result, int(a.settings.CacheTTL().Seconds()))
	}

	return result, nil
}

// SearchBatch executes every query sequentially, in order.
func (a *Aggregator) SearchBatch(ctx context.Context, queries []string, opts SearchOptions) models.BatchResult {
	start := time.Now()
	batch := models.BatchResult{
		Queries: queries,
		Results: make(map[string]models.SearchResult),
		Timing:  make(map[string]float64),
	}

	for _, q := range queries {
		q = trimEmpty(q)
		if q == "" {
			continue
		}

		queryStart := time.Now()
		result, err := a.Search(ctx, q, opts)
		elapsed := time.Since(queryStart).Seconds()

		if err != nil {
			result.Errors = append(result.Errors, err.Error())
		}

		batch.Results[q] = result
		batch.Timing[q] = roundTo2(elapsed)
		batch.TotalOrganic += result.OrganicCount()
		batch.QueryTimings = append(batch.QueryTimings, models.QueryTiming{
			Query:          q,
			ElapsedSeconds: roundTo2(elapsed),
			ResultCount:    result.OrganicCount(),
			PagesFetched:   result.PagesFetched,
			Errors:         len(result.Errors),
		})
	}

	batch.TotalElapsedSeconds = roundTo2(time.Since(start).Seconds())
	return batch
}

// SearchParallel executes every query concurrently, bounded by
// maxParallelQueries.
func (a *Aggregator) SearchParallel(ctx context.Context, queries []string, opts SearchOptions, maxParallelQueries int) models.BatchResult {
	start := time.Now()
	if maxParallelQueries < 1 {
		maxParallelQueries = 1
	}

	type timedResult struct {
		query   string
		result  models.SearchResult
		elapsed float64
	}

	sem := make(chan struct{}, maxParallelQueries)
	resultsCh := make(chan timedResult, len(queries))
	var wg sync.WaitGroup

	for _, q := range queries {
		q = trimEmpty(q)
		if q == "" {
			continue
		}

		wg.Add(1)
		go func(query string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			queryStart := time.Now()
			result, err := a.Search(ctx, query, opts)
			if err != nil {
				result.Errors = append(result.Errors, err.Error())
			}
			resultsCh <- timedResult{query: query, result: result, elapsed: time.Since(queryStart).Seconds()}
		}(q)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	batch := models.BatchResult{
		Queries: queries,
		Results: make(map[string]models.SearchResult),
		Timing:  make(map[string]float64),
	}
	for tr := range resultsCh {
		batch.Results[tr.query] = tr.result
		batch.Timing[tr.query] = roundTo2(tr.elapsed)
		batch.TotalOrganic += tr.result.OrganicCount()
		batch.QueryTimings = append(batch.QueryTimings, models.QueryTiming{
			Query:          tr.query,
			ElapsedSeconds: roundTo2(tr.elapsed),
			ResultCount:    tr.result.OrganicCount(),
			PagesFetched:   tr.result.PagesFetched,
			Errors:         len(tr.result.Errors),
		})
	}

	batch.TotalElapsedSeconds = roundTo2(time.Since(start).Seconds())
	return batch
}

// SearchStream runs every query sequentially, sending each result to the
// returned channel as soon as it completes. The channel is closed once
// every query has been attempted.
func (a *Aggregator) SearchStream(ctx context.Context, queries []string, opts SearchOptions) <-chan StreamItem {
	out := make(chan StreamItem)
	go func() {
		defer close(out)
		for _, q := range queries {
			q = trimEmpty(q)
			if q == "" {
				continue
			}
			result, err := a.Search(ctx, q, opts)
			item := StreamItem{Query: q, Result: result}
			if err != nil {
				item.Err = err
			}
			select {
			case out <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (a *Aggregator) Cache() cache.Cache             { return a.cache }
func (a *Aggregator) RateLimiter() limiter.RateLimiter { return a.rateLimiter }
func (a *Aggregator) Settings() config.Settings      { return a.settings }

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func trimEmpty(s string) string {
	return strings.TrimSpace(s)
}

func roundTo2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
