package insights

import "errors"

// Failure taxonomy. Components wrap these with fmt.Errorf("%w: ...", ...)
// and the HTTP layer maps them to status codes with errors.Is.
var (
	// ErrInvalidInput marks caller-correctable request defects (no source
	// provided, empty text, malformed URL). Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetchFailed marks URL retrieval failures (network error,
	// non-success status, timeout).
	ErrFetchFailed = errors.New("fetch failed")

	// ErrAnalysisFailed marks LLM call failures or unparseable model output.
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrNotFound marks a missing insight id.
	ErrNotFound = errors.New("insight not found")

	// ErrStoreFailed marks underlying persistence errors (e.g. lock timeout).
	ErrStoreFailed = errors.New("store failure")
)
