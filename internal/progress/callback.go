package progress

// CallbackReporter delegates query start, page, completion and error events
// to user-supplied functions. Any nil callback is simply skipped. Cache hits
// are not delegated.
type CallbackReporter struct {
	OnStart    func(query string, totalPages int)
	OnPage     func(event Event)
	OnComplete func(query string, totalResults int, elapsed float64)
	OnErrorFn  func(query string, errMsg string, page int)
}

func NewCallbackReporter() *CallbackReporter {
	return &CallbackReporter{}
}

func (r *CallbackReporter) OnQueryStart(query string, totalPages int) {
	if r.OnStart != nil {
		r.OnStart(query, totalPages)
	}
}

func (r *CallbackReporter) OnPageComplete(event Event) {
	if r.OnPage != nil {
		r.OnPage(event)
	}
}

func (r *CallbackReporter) OnQueryComplete(query string, totalResults int, elapsed float64) {
	if r.OnComplete != nil {
		r.OnComplete(query, totalResults, elapsed)
	}
}

func (r *CallbackReporter) OnError(query string, errMsg string, page int) {
	if r.OnErrorFn != nil {
		r.OnErrorFn(query, errMsg, page)
	}
}

func (r *CallbackReporter) OnCacheHit(query string) {}
