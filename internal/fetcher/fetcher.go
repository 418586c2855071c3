package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rohmanhakim/serp-aggregator/internal/config"
	"github.com/rohmanhakim/serp-aggregator/pkg/failure"
	"github.com/rohmanhakim/serp-aggregator/pkg/limiter"
)

// Fetcher
// Specialized component to run the two-phase submit/poll protocol against
// the upstream SERP provider for a single page.
// Responsibilities:
// - Submit a page request and poll get_result until it settles
// - Translate upstream status codes into the FetchError taxonomy
// - Report every attempt outcome to the configured rate limiter
type Fetcher interface {
	Init(httpClient *http.Client)
	Fetch(ctx context.Context, param FetchParam) (FetchResult, failure.ClassifiedError)
}

// BrightDataFetcher talks to a Bright Data-compatible SERP API: POST
// /serp/req to submit, then GET /serp/get_result?response_id=... until the
// upstream settles (200), reports itself pending (102/202), rate-limits
// (429), or errors out.
type BrightDataFetcher struct {
	httpClient  *http.Client
	settings    config.Settings
	rateLimiter limiter.RateLimiter
}

func NewBrightDataFetcher(settings config.Settings, rateLimiter limiter.RateLimiter) *BrightDataFetcher {
	if rateLimiter == nil {
		rateLimiter = limiter.NewNullRateLimiter()
	}
	return &BrightDataFetcher{
		httpClient:  &http.Client{Timeout: settings.RequestTimeout()},
		settings:    settings,
		rateLimiter: rateLimiter,
	}
}

func (f *BrightDataFetcher) Init(httpClient *http.Client) {
	f.httpClient = httpClient
}

// Fetch runs submit+poll once. Callers that want retry-on-transient-error
// semantics wrap this with pkg/retry.Retry.
func (f *BrightDataFetcher) Fetch(ctx context.Context, param FetchParam) (FetchResult, failure.ClassifiedError) {
	correlationID := uuid.NewString()

	if err := f.rateLimiter.Acquire(ctx); err != nil {
		return FetchResult{}, &FetchError{
			Message:       err.Error(),
			Retryable:     true,
			Cause:         ErrCauseCircuitOpen,
			CorrelationID: correlationID,
		}
	}

	responseID, fetchErr := f.submit(ctx, param, correlationID)
	if fetchErr != nil {
		return FetchResult{}, fetchErr
	}

	response, fetchErr := f.poll(ctx, responseID, correlationID)
	if fetchErr != nil {
		return FetchResult{}, fetchErr
	}

	f.rateLimiter.OnSuccess()
	return NewFetchResult(param.Page(), response, time.Now(), correlationID), nil
}

func (f *BrightDataFetcher) searchURL(param FetchParam) string {
	return fmt.Sprintf(
		"https://www.google.com/search?gl=%s&hl=%s&brd_json=1&q=%s&start=%d",
		param.Country(), param.Language(), param.Query(), param.Start(),
	)
}

func (f *BrightDataFetcher) authHeader(req *http.Request, correlationID string) {
	req.Header.Set("Authorization", "Bearer "+f.settings.BrightDataAPIKey())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", correlationID)
}

func (f *BrightDataFetcher) submit(ctx context.Context, param FetchParam, correlationID string) (string, *FetchError) {
	body, err := json.Marshal(submitRequest{
		Zone:   f.settings.BrightDataZone(),
		URL:    f.searchURL(param),
		Format: "raw",
	})
	if err != nil {
		f.rateLimiter.OnError()
		return "", &FetchError{Message: err.Error(), Retryable: false, Cause: ErrCauseAPIError, CorrelationID: correlationID}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.settings.APIBaseURL()+"/serp/req", bytes.NewReader(body))
	if err != nil {
		f.rateLimiter.OnError()
		return "", &FetchError{Message: err.Error(), Retryable: false, Cause: ErrCauseAPIError, CorrelationID: correlationID}
	}
	f.authHeader(req, correlationID)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.rateLimiter.OnError()
		return "", &FetchError{Message: err.Error(), Retryable: true, Cause: ErrCauseNetworkFailure, CorrelationID: correlationID}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		f.rateLimiter.OnRateLimit()
		return "", &FetchError{Message: "rate limit exceeded on submit", Retryable: false, Cause: ErrCauseRateLimited, StatusCode: resp.StatusCode, CorrelationID: correlationID}
	}

	var parsed submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		f.rateLimiter.OnError()
		return "", &FetchError{Message: err.Error(), Retryable: true, Cause: ErrCauseAPIError, StatusCode: resp.StatusCode, CorrelationID: correlationID}
	}

	if parsed.ResponseID == "" {
		f.rateLimiter.OnError()
		return "", &FetchError{Message: "no response_id returned from API", Retryable: false, Cause: ErrCauseNoResponseID, StatusCode: resp.StatusCode, CorrelationID: correlationID}
	}

	return parsed.ResponseID, nil
}

func (f *BrightDataFetcher) poll(ctx context.Context, responseID, correlationID string) (PageResponse, *FetchError) {
	for i := 0; i < f.settings.MaxPolls(); i++ {
		timer := time.NewTimer(f.settings.PollInterval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return PageResponse{}, &FetchError{Message: ctx.Err().Error(), Retryable: false, Cause: ErrCauseTimeout, ResponseID: responseID, CorrelationID: correlationID}
		case <-timer.C:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.settings.APIBaseURL()+"/serp/get_result", nil)
		if err != nil {
			f.rateLimiter.OnError()
			return PageResponse{}, &FetchError{Message: err.Error(), Retryable: false, Cause: ErrCauseAPIError, ResponseID: responseID, CorrelationID: correlationID}
		}
		f.authHeader(req, correlationID)
		q := req.URL.Query()
		q.Set("response_id", responseID)
		req.URL.RawQuery = q.Encode()

		resp, err := f.httpClient.Do(req)
		if err != nil {
			f.rateLimiter.OnError()
			return PageResponse{}, &FetchError{Message: err.Error(), Retryable: true, Cause: ErrCauseNetworkFailure, ResponseID: responseID, CorrelationID: correlationID}
		}

		switch resp.StatusCode {
		case http.StatusOK:
			var parsed PageResponse
			decodeErr := json.NewDecoder(resp.Body).Decode(&parsed)
			resp.Body.Close()
			if decodeErr != nil {
				f.rateLimiter.OnError()
				return PageResponse{}, &FetchError{Message: decodeErr.Error(), Retryable: true, Cause: ErrCauseAPIError, ResponseID: responseID, CorrelationID: correlationID}
			}
			return parsed, nil

		case http.StatusTooManyRequests:
			resp.Body.Close()
			f.rateLimiter.OnRateLimit()
			return PageResponse{}, &FetchError{Message: "rate limit exceeded during polling", Retryable: false, Cause: ErrCauseRateLimited, StatusCode: resp.StatusCode, ResponseID: responseID, CorrelationID: correlationID}

		case http.StatusProcessing, http.StatusAccepted:
			resp.Body.Close()
			continue

		default:
			resp.Body.Close()
			f.rateLimiter.OnError()
			return PageResponse{}, &FetchError{
				Message:       fmt.Sprintf("unexpected status during polling: %d", resp.StatusCode),
				Retryable:     false,
				Cause:         ErrCauseAPIError,
				StatusCode:    resp.StatusCode,
				ResponseID:    responseID,
				CorrelationID: correlationID,
			}
		}
	}

	f.rateLimiter.OnError()
	return PageResponse{}, &FetchError{
		Message:       fmt.Sprintf("polling timeout after %d attempts", f.settings.MaxPolls()),
		Retryable:     true,
		Cause:         ErrCausePollTimeout,
		ResponseID:    responseID,
		CorrelationID: correlationID,
	}
}
