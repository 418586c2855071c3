package scheduler

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/rohmanhakim/serp-aggregator/internal/fetcher"
	"github.com/rohmanhakim/serp-aggregator/internal/models"
	"github.com/rohmanhakim/serp-aggregator/internal/progress"
	"github.com/rohmanhakim/serp-aggregator/pkg/failure"
	"github.com/rohmanhakim/serp-aggregator/pkg/retry"
)

/*
 Scheduler is the sole control-plane authority over one query's page
 fan-out.

 Responsibilities:
 - Bound concurrent page fetches to a fixed width
 - Consume page outcomes in completion order, not page order
 - Merge organic results across pages, deduplicating by URL
 - Stop admitting further pages once consecutiveEmptyLimit empty/error
   pages have been observed in a row, and cancel everything still in
   flight
 - Report progress observationally; a Reporter must never be allowed to
   influence retry, continuation, or termination decisions
*/
type Scheduler struct {
	fetcher               fetcher.Fetcher
	retryParam            retry.RetryParam
	reporter              progress.Reporter
	consecutiveEmptyLimit int
}

func NewScheduler(
	htmlFetcher fetcher.Fetcher,
	retryParam retry.RetryParam,
	reporter progress.Reporter,
	consecutiveEmptyLimit int,
) Scheduler {
	if reporter == nil {
		reporter = progress.NewNullReporter()
	}
	return Scheduler{
		fetcher:               htmlFetcher,
		retryParam:            retryParam,
		reporter:              reporter,
		consecutiveEmptyLimit: consecutiveEmptyLimit,
	}
}

// urlEntry accumulates every sighting of one URL across pages, mirroring
// the organic_by_url dict kept during fan-out.
type urlEntry struct {
	link        string
	title       string
	description string
	rank        int
	positions   []int
	pages       []int
}

// FetchAllPages runs the full fan-out for one query: spawns up to
// concurrency page fetches bounded by a semaphore, consumes them as they
// complete, merges organic results by URL, and returns a fully assembled
// SearchResult.
func (s Scheduler) FetchAllPages(
	ctx context.Context,
	query string,
	maxPages int,
	concurrency int,
	country string,
	language string,
	rawCollector *[]fetcher.PageResponse,
) models.SearchResult {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.reporter.OnQueryStart(query, maxPages)

	sem := make(chan struct{}, concurrency)
	outcomes := make(chan pageOutcome, maxPages)

	var wg sync.WaitGroup
	for page := 1; page <= maxPages; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				outcomes <- pageOutcome{page: page, err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				outcomes <- pageOutcome{page: page, err: ctx.Err()}
				return
			}

			param := fetcher.NewFetchParam(query, page, country, language)
			result := retry.Retry(ctx, s.retryParam, func(ctx context.Context) (fetcher.FetchResult, failure.ClassifiedError) {
				return s.fetcher.Fetch(ctx, param)
			})

			if !result.Ok() {
				outcomes <- pageOutcome{page: page, err: result.Err()}
				return
			}
			outcomes <- pageOutcome{page: page, response: result.Value().Response()}
		}(page)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	organicByURL := make(map[string]*urlEntry)
	var urlOrder []string
	paginationSeen := make(map[string]models.PaginationItem)
	var firstResponse *fetcher.PageResponse
	var errs []string
	consecutiveEmpty := 0
	pagesFetched := 0

	for outcome := range outcomes {
		if ctx.Err() != nil {
			continue
		}

		pagesFetched++

		if outcome.err != nil {
			errs = append(errs, "Page "+strconv.Itoa(outcome.page)+": "+outcome.err.Error())
			s.reporter.OnError(query, outcome.err.Error(), outcome.page)
			consecutiveEmpty++
		} else {
			if rawCollector != nil {
				*rawCollector = append(*rawCollector, outcome.response)
			}
			if firstResponse == nil {
				resp := outcome.response
				firstResponse = &resp
			}

			organic := outcome.response.Organic
			if len(organic) > 0 {
				consecutiveEmpty = 0
				for _, o := range organic {
					if o.Link == "" {
						continue
					}
					existing, ok := organicByURL[o.Link]
					if !ok {
						organicByURL[o.Link] = &urlEntry{
							link:        o.Link,
							title:       o.Title,
							description: o.Description,
							rank:        o.Rank,
							positions:   []int{o.Rank},
							pages:       []int{outcome.page},
						}
						urlOrder = append(urlOrder, o.Link)
					} else {
						existing.positions = append(existing.positions, o.Rank)
						existing.pages = append(existing.pages, outcome.page)
					}
				}
			} else {
				consecutiveEmpty++
			}

			for _, pag := range outcome.response.Pagination {
				if pag.Page != "" {
					paginationSeen[pag.Page] = pag
				}
			}

			status := progress.StatusComplete
			if len(organic) == 0 {
				status = progress.StatusEmpty
			}
			s.reporter.OnPageComplete(progress.Event{
				Query:        query,
				Page:         outcome.page,
				TotalPages:   maxPages,
				ResultsCount: len(organic),
				Status:       status,
			})
		}

		if consecutiveEmpty >= s.consecutiveEmptyLimit {
			cancel()
		}
	}

	result := buildSearchResult(query, organicByURL, urlOrder, paginationSeen, firstResponse, pagesFetched, errs)
	s.reporter.OnQueryComplete(query, result.OrganicCount(), 0)
	return result
}

func buildSearchResult(
	query string,
	organicByURL map[string]*urlEntry,
	urlOrder []string,
	paginationSeen map[string]models.PaginationItem,
	firstResponse *fetcher.PageResponse,
	pagesFetched int,
	errs []string,
) models.SearchResult {
	organicResults := make([]models.OrganicResult, 0, len(urlOrder))
	for _, link := range urlOrder {
		e := organicByURL[link]
		sum := 0
		best := e.positions[0]
		for _, p := range e.positions {
			sum += p
			if p < best {
				best = p
			}
		}
		avg := roundTo2(float64(sum) / float64(len(e.positions)))

		organicResults = append(organicResults, models.OrganicResult{
			Link:         e.link,
			Title:        e.title,
			Description:  e.description,
			Rank:         e.rank,
			BestPosition: best,
			AvgPosition:  avg,
			Frequency:    len(e.positions),
			PagesSeen:    dedupSortedInts(e.pages),
		})
	}
	// SliceStable preserves first-insertion order into organicByURL as the
	// tiebreak when BestPosition is equal across entries.
	sort.SliceStable(organicResults, func(i, j int) bool {
		return organicResults[i].BestPosition < organicResults[j].BestPosition
	})

	pagination := make([]models.PaginationItem, 0, len(paginationSeen))
	for _, p := range paginationSeen {
		pagination = append(pagination, p)
	}
	sort.Slice(pagination, func(i, j int) bool {
		pi, _ := strconv.Atoi(pagination[i].Page)
		pj, _ := strconv.Atoi(pagination[j].Page)
		return pi < pj
	})

	result := models.SearchResult{
		Organic:      organicResults,
		Pagination:   pagination,
		PagesFetched: pagesFetched,
		Errors:       errs,
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}

	if firstResponse != nil {
		result.URL = firstResponse.URL
		result.Keyword = firstResponse.Keyword
		result.General = firstResponse.General
		result.Related = firstResponse.Related
		result.PeopleAlsoAsk = firstResponse.PeopleAlsoAsk
		result.Navigation = firstResponse.Navigation
		result.Language = firstResponse.Language
		result.Country = firstResponse.Country
		result.AIOText = firstResponse.AIOText
	}
	if result.General.Query == "" {
		result.General.Query = query
	}
	if result.Related == nil {
		result.Related = []models.RelatedSearch{}
	}
	if result.PeopleAlsoAsk == nil {
		result.PeopleAlsoAsk = []string{}
	}
	if result.Navigation == nil {
		result.Navigation = []models.NavigationItem{}
	}

	return result
}

func dedupSortedInts(values []int) []int {
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func roundTo2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
