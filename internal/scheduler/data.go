package scheduler

import "github.com/rohmanhakim/serp-aggregator/internal/fetcher"

// pageOutcome is one page's fetch result as it arrives on the completion
// channel, kept internal since callers only ever see the merged
// models.SearchResult.
type pageOutcome struct {
	page     int
	response fetcher.PageResponse
	err      error
}
