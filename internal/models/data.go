package models

import (
	"strings"
)

// SearchParams
// Request parameters for a single aggregated search.
// Responsibilities:
// - Own bound validation for one query
// - Stay immutable once returned by NewSearchParams
type SearchParams struct {
	query       string
	country     string
	language    string
	maxPages    int
	concurrency int
	searchType  string
}

const (
	SearchTypeWeb      = "web"
	SearchTypeImages   = "images"
	SearchTypeNews     = "news"
	SearchTypeShopping = "shopping"
	SearchTypeVideos   = "videos"
)

// NewSearchParams builds SearchParams from raw input, trimming surrounding
// whitespace from the query. It checks no bounds; call Validate() to
// surface violations.
func NewSearchParams(query, country, language string, maxPages, concurrency int, searchType string) SearchParams {
	return SearchParams{
		query:       strings.TrimSpace(query),
		country:     country,
		language:    language,
		maxPages:    maxPages,
		concurrency: concurrency,
		searchType:  searchType,
	}
}

func (p SearchParams) Query() string      { return p.query }
func (p SearchParams) Country() string    { return p.country }
func (p SearchParams) Language() string   { return p.language }
func (p SearchParams) MaxPages() int      { return p.maxPages }
func (p SearchParams) Concurrency() int   { return p.concurrency }
func (p SearchParams) SearchType() string { return p.searchType }

// OrganicResult is a single organic search result, annotated with the
// dedup/merge metadata the aggregator computes across pages.
type OrganicResult struct {
	Link         string  `json:"link"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Rank         int     `json:"rank"`
	BestPosition int     `json:"best_position"`
	AvgPosition  float64 `json:"avg_position"`
	Frequency    int     `json:"frequency"`
	PagesSeen    []int   `json:"pages_seen"`
}

// RelatedSearch is a single related-search suggestion surfaced by upstream.
type RelatedSearch struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
	Rank int    `json:"rank"`
}

// PaginationItem is a single pagination link from the SERP response.
type PaginationItem struct {
	Link     string `json:"link,omitempty"`
	Page     string `json:"page,omitempty"`
	PageHTML string `json:"page_html,omitempty"`
}

// NavigationItem is a navigation tab (Images, Videos, ...) from the SERP
// response.
type NavigationItem struct {
	Title string `json:"title,omitempty"`
	Link  string `json:"link,omitempty"`
}

// GeneralMetadata is the search metadata block echoed by the upstream
// provider on the first page response.
type GeneralMetadata struct {
	Query        string `json:"query,omitempty"`
	Datetime     string `json:"datetime,omitempty"`
	Language     string `json:"language,omitempty"`
	Location     string `json:"location,omitempty"`
	SearchEngine string `json:"search_engine,omitempty"`
	SearchType   string `json:"search_type,omitempty"`
	PageTitle    string `json:"page_title,omitempty"`
}

// SearchResult is the fully merged, deduplicated view of a query across all
// pages fetched for it.
type SearchResult struct {
	URL           string          `json:"url,omitempty"`
	Keyword       string          `json:"keyword,omitempty"`
	General       GeneralMetadata `json:"general"`
	Organic       []OrganicResult `json:"organic"`
	Related       []RelatedSearch `json:"related"`
	PeopleAlsoAsk []string        `json:"people_also_ask"`
	Pagination    []PaginationItem `json:"pagination"`
	Navigation    []NavigationItem `json:"navigation"`
	Language      string          `json:"language,omitempty"`
	Country       string          `json:"country,omitempty"`
	AIOText       string          `json:"aio_text,omitempty"`

	PagesFetched int      `json:"pages_fetched"`
	Errors       []string `json:"errors"`
}

func (r SearchResult) OrganicCount() int {
	return len(r.Organic)
}

func (r SearchResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// QueryTiming records per-query timing for a batch search operation.
type QueryTiming struct {
	Query          string
	ElapsedSeconds float64
	ResultCount    int
	PagesFetched   int
	Errors         int
}

// BatchResult is the outcome of searching many queries in one call.
type BatchResult struct {
	Queries             []string
	Results             map[string]SearchResult
	Timing              map[string]float64
	TotalOrganic        int
	TotalElapsedSeconds float64
	QueryTimings        []QueryTiming
}

func (b BatchResult) SuccessCount() int {
	count := 0
	for _, r := range b.Results {
		if !r.HasErrors() {
			count++
		}
	}
	return count
}

func (b BatchResult) ErrorCount() int {
	count := 0
	for _, r := range b.Results {
		if r.HasErrors() {
			count++
		}
	}
	return count
}
