package progress_test

import (
	"testing"

	"github.com/rohmanhakim/serp-aggregator/internal/progress"
	"github.com/stretchr/testify/assert"
)

func TestEvent_ProgressPct(t *testing.T) {
	e := progress.Event{Page: 5, TotalPages: 20}
	assert.Equal(t, 25.0, e.ProgressPct())
}

func TestEvent_ProgressPct_ZeroTotalPages(t *testing.T) {
	e := progress.Event{Page: 5, TotalPages: 0}
	assert.Equal(t, 0.0, e.ProgressPct())
}

func TestCallbackReporter_DelegatesToCallbacks(t *testing.T) {
	var startQuery string
	var startPages int
	var pageEvents []progress.Event
	var completeQuery string
	var completeResults int
	var errQuery, errMsg string
	var errPage int

	r := progress.NewCallbackReporter()
	r.OnStart = func(query string, totalPages int) {
		startQuery, startPages = query, totalPages
	}
	r.OnPage = func(e progress.Event) {
		pageEvents = append(pageEvents, e)
	}
	r.OnComplete = func(query string, totalResults int, elapsed float64) {
		completeQuery, completeResults = query, totalResults
	}
	r.OnErrorFn = func(query, msg string, page int) {
		errQuery, errMsg, errPage = query, msg, page
	}

	r.OnQueryStart("golang", 5)
	r.OnPageComplete(progress.Event{Query: "golang", Page: 1, TotalPages: 5, Status: progress.StatusComplete})
	r.OnQueryComplete("golang", 42, 1.5)
	r.OnError("golang", "boom", 2)

	assert.Equal(t, "golang", startQuery)
	assert.Equal(t, 5, startPages)
	assert.Len(t, pageEvents, 1)
	assert.Equal(t, "golang", completeQuery)
	assert.Equal(t, 42, completeResults)
	assert.Equal(t, "golang", errQuery)
	assert.Equal(t, "boom", errMsg)
	assert.Equal(t, 2, errPage)
}

func TestAggregatingReporter_AccumulatesEvents(t *testing.T) {
	r := progress.NewAggregatingReporter()

	r.OnPageComplete(progress.Event{Query: "a", Page: 1})
	r.OnPageComplete(progress.Event{Query: "a", Page: 2})
	r.OnQueryComplete("a", 10, 1.0)
	r.OnQueryComplete("b", 5, 1.0)
	r.OnError("a", "timeout", 3)

	assert.Equal(t, 2, r.TotalPagesFetched())
	assert.Equal(t, 15, r.TotalResults())
	assert.Equal(t, 1, r.ErrorCount())
	assert.Len(t, r.Events(), 2)
	assert.Equal(t, "timeout", r.Errors()[0].Error)
}

func TestNullReporter_NoPanics(t *testing.T) {
	r := progress.NewNullReporter()
	r.OnQueryStart("q", 1)
	r.OnPageComplete(progress.Event{})
	r.OnQueryComplete("q", 0, 0)
	r.OnError("q", "e", 0)
	r.OnCacheHit("q")
}
