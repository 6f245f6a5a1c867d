package model

import (
	"errors"
	"fmt"
	"time"
)

// Caller-visible parse failures. Everything else is recovered inside the
// pipeline.
var (
	ErrInvalidURL        = errors.New("invalid url")
	ErrUnsupportedSource = errors.New("지원하지 않는 채용 사이트입니다")
	ErrFetchFailure      = errors.New("failed to fetch url")
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
