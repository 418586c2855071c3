package cmd

import (
	"fmt"
	"os"

	"github.com/rohmanhakim/serp-aggregator/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile          string
	apiKey           string
	zone             string
	apiBaseURL       string
	country          string
	language         string
	maxPages         int
	concurrency      int
	noCache          bool
	verbose          bool
	rateLimitEnabled bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "serpcli",
	Short: "A concurrent search-results aggregation CLI.",
	Long: `serpcli fans out paginated search requests against an upstream SERP
provider, deduplicates organic results by URL across pages, and prints
the merged result as JSON.

Configuration is read from an optional config file, SERP_-prefixed
environment variables, or command-line flags, in that order of increasing
precedence.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "upstream API key (overrides SERP_BRIGHT_DATA_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&zone, "zone", "", "upstream zone identifier")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-base-url", "", "upstream API base URL")
	rootCmd.PersistentFlags().StringVar(&country, "country", "", "country code (gl), e.g. us")
	rootCmd.PersistentFlags().StringVar(&language, "language", "", "language code (hl), e.g. en")
	rootCmd.PersistentFlags().IntVar(&maxPages, "max-pages", 0, "maximum pages to fetch per query")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "concurrent page fetches per query")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print per-page progress to stderr")
	rootCmd.PersistentFlags().BoolVar(&rateLimitEnabled, "rate-limit", true, "enable adaptive rate limiting")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(searchBatchCmd)
	rootCmd.AddCommand(searchStreamCmd)
}

// loadSettings builds config.Settings from the config file (if given),
// environment, and CLI flag overrides, in that precedence order.
func loadSettings() (config.Settings, error) {
	settings, err := config.Load(cfgFile)
	if err != nil {
		return config.Settings{}, err
	}

	builder := &settings
	if apiKey != "" {
		// API key has no With method since it is set at WithDefault time;
		// rebuild via WithDefault to override it explicitly.
		base := config.WithDefault(apiKey).
			WithBrightDataZone(settings.BrightDataZone()).
			WithAPIBaseURL(settings.APIBaseURL()).
			WithDefaultCountry(settings.DefaultCountry()).
			WithDefaultLanguage(settings.DefaultLanguage()).
			WithDefaultMaxPages(settings.DefaultMaxPages()).
			WithDefaultConcurrency(settings.DefaultConcurrency()).
			WithPollInterval(settings.PollInterval()).
			WithMaxPolls(settings.MaxPolls()).
			WithRequestTimeout(settings.RequestTimeout()).
			WithMaxRetries(settings.MaxRetries()).
			WithRetryBackoff(settings.RetryBackoff()).
			WithRateLimitEnabled(settings.RateLimitEnabled()).
			WithRateLimitRPS(settings.RateLimitRPS()).
			WithRateLimitBurst(settings.RateLimitBurst()).
			WithCacheEnabled(settings.CacheEnabled()).
			WithCacheTTL(settings.CacheTTL()).
			WithCacheBackend(settings.CacheBackend()).
			WithRedisURL(settings.RedisURL()).
			WithConsecutiveEmptyLimit(settings.ConsecutiveEmptyLimit())
		builder = base
	}
	if zone != "" {
		builder = builder.WithBrightDataZone(zone)
	}
	if apiBaseURL != "" {
		builder = builder.WithAPIBaseURL(apiBaseURL)
	}
	if country != "" {
		builder = builder.WithDefaultCountry(country)
	}
	if language != "" {
		builder = builder.WithDefaultLanguage(language)
	}
	if maxPages > 0 {
		builder = builder.WithDefaultMaxPages(maxPages)
	}
	if concurrency > 0 {
		builder = builder.WithDefaultConcurrency(concurrency)
	}
	builder = builder.WithRateLimitEnabled(rateLimitEnabled)

	return builder.Build()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
