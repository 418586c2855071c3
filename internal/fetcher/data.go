package fetcher

import (
	"time"

	"github.com/rohmanhakim/serp-aggregator/internal/models"
)

// FetchParam is the per-page request the submit/poll protocol is driven
// with.
type FetchParam struct {
	query    string
	page     int
	country  string
	language string
}

func NewFetchParam(query string, page int, country, language string) FetchParam {
	return FetchParam{query: query, page: page, country: country, language: language}
}

func (p FetchParam) Query() string    { return p.query }
func (p FetchParam) Page() int        { return p.page }
func (p FetchParam) Country() string  { return p.country }
func (p FetchParam) Language() string { return p.language }

// Start is the pagination offset the upstream API expects: page 1 starts
// at 0, page 2 at 10, and so on.
func (p FetchParam) Start() int {
	return (p.page - 1) * 10
}

// PageResponse is the decoded body returned by the upstream get_result
// endpoint for a single page. Its JSON shape mirrors the upstream schema
// directly, so it decodes straight off the wire with no intermediate
// struct.
type PageResponse struct {
	URL           string                   `json:"url"`
	Keyword       string                   `json:"keyword"`
	General       models.GeneralMetadata   `json:"general"`
	Organic       []models.OrganicResult   `json:"organic"`
	Related       []models.RelatedSearch   `json:"related"`
	PeopleAlsoAsk []string                 `json:"people_also_ask"`
	Pagination    []models.PaginationItem  `json:"pagination"`
	Navigation    []models.NavigationItem  `json:"navigation"`
	Language      string                   `json:"language"`
	Country       string                   `json:"country"`
	AIOText       string                   `json:"aio_text"`
}

// FetchResult is the outcome of fetching one page, annotated with the page
// number so the scheduler can report progress independent of arrival
// order, and the correlation ID the submit/poll calls were tagged with so
// a single page fetch can be traced end to end in upstream logs.
type FetchResult struct {
	page          int
	response      PageResponse
	fetchedAt     time.Time
	correlationID string
}

func NewFetchResult(page int, response PageResponse, fetchedAt time.Time, correlationID string) FetchResult {
	return FetchResult{page: page, response: response, fetchedAt: fetchedAt, correlationID: correlationID}
}

func (r FetchResult) Page() int              { return r.page }
func (r FetchResult) Response() PageResponse { return r.response }
func (r FetchResult) FetchedAt() time.Time   { return r.fetchedAt }
func (r FetchResult) CorrelationID() string  { return r.correlationID }

// submitRequest is the body posted to /serp/req.
type submitRequest struct {
	Zone   string `json:"zone"`
	URL    string `json:"url"`
	Format string `json:"format"`
}

// submitResponse is the body returned by /serp/req.
type submitResponse struct {
	ResponseID string `json:"response_id"`
}
