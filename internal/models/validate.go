package models

import "regexp"

var (
	countryPattern  = regexp.MustCompile(`^[a-z]{2}$`)
	languagePattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]{2})?$`)
)

var validSearchTypes = map[string]struct{}{
	SearchTypeWeb:      {},
	SearchTypeImages:   {},
	SearchTypeNews:     {},
	SearchTypeShopping: {},
	SearchTypeVideos:   {},
}

// Validate checks SearchParams against the same bounds the settings layer
// enforces on its defaults, returning the first violation found.
func (p SearchParams) Validate() *ValidationError {
	if p.query == "" {
		return &ValidationError{Field: "query", Cause: ErrCauseQueryEmpty}
	}
	if len(p.query) > 500 {
		return &ValidationError{Field: "query", Cause: ErrCauseQueryTooLong}
	}
	if !countryPattern.MatchString(p.country) {
		return &ValidationError{Field: "country", Cause: ErrCauseCountryInvalid}
	}
	if !languagePattern.MatchString(p.language) {
		return &ValidationError{Field: "language", Cause: ErrCauseLanguageInvalid}
	}
	if p.maxPages < 1 || p.maxPages > 100 {
		return &ValidationError{Field: "max_pages", Cause: ErrCauseMaxPagesOOR}
	}
	if p.concurrency < 1 || p.concurrency > 200 {
		return &ValidationError{Field: "concurrency", Cause: ErrCauseConcurrencyOOR}
	}
	if _, ok := validSearchTypes[p.searchType]; !ok {
		return &ValidationError{Field: "search_type", Cause: ErrCauseSearchTypeBad}
	}
	return nil
}
