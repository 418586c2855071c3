package aggregator

import (
	"github.com/rohmanhakim/serp-aggregator/internal/fetcher"
	"github.com/rohmanhakim/serp-aggregator/internal/models"
)

// SearchOptions overrides the Aggregator's default settings for a single
// call. Zero values mean "use the Aggregator's configured default".
type SearchOptions struct {
	MaxPages     int
	Concurrency  int
	Country      string
	Language     string
	UseCache     bool
	RawCollector *[]fetcher.PageResponse
}

// DefaultSearchOptions returns an options value with UseCache enabled and
// every numeric override left at zero (meaning: use the Aggregator's
// configured defaults).
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{UseCache: true}
}

// StreamItem is one entry yielded by SearchStream: either a completed
// query result, or an error observed while searching that query.
type StreamItem struct {
	Query  string
	Result models.SearchResult
	Err    error
}
