package aggregator

import (
	"context"

	"github.com/rohmanhakim/serp-aggregator/internal/config"
	"github.com/rohmanhakim/serp-aggregator/internal/models"
	"github.com/rohmanhakim/serp-aggregator/pkg/failure"
)

// QuickSearch spins up a temporary Aggregator, connects it, runs one
// query and tears it back down. Intended for one-off scripts where the
// caller doesn't want to manage the Aggregator's lifecycle.
func QuickSearch(ctx context.Context, settings config.Settings, query string, opts SearchOptions) (models.SearchResult, failure.ClassifiedError) {
	a := New(settings)
	if err := a.Connect(); err != nil {
		return models.SearchResult{}, &ConfigError{Message: err.Error(), Cause: ErrCauseNotConnected}
	}
	defer a.Close()

	return a.Search(ctx, query, opts)
}

// QuickSearchBatch is QuickSearch's batch counterpart.
func QuickSearchBatch(ctx context.Context, settings config.Settings, queries []string, opts SearchOptions) models.BatchResult {
	a := New(settings)
	if err := a.Connect(); err != nil {
		return models.BatchResult{Queries: queries}
	}
	defer a.Close()

	return a.SearchBatch(ctx, queries, opts)
}
