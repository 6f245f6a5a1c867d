// Package retry provides a caller-owned retry policy for page fetches. The
// parse pipeline itself never retries; wrapping the fetcher is opt-in via
// fetch.max_retries.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/amishk599/jobcal/internal/model"
)

// RetryFetcher retries a wrapped fetcher on 429, 5xx and network errors.
// Delays grow exponentially from baseDelay with ±30% jitter; a Retry-After
// hint from the server wins.
type RetryFetcher struct {
	inner      model.Fetcher
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryFetcher wraps inner. maxRetries counts the attempts after the
// first one, so zero makes the decorator a pass-through.
func NewRetryFetcher(inner model.Fetcher, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryFetcher {
	return &RetryFetcher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Fetch implements model.Fetcher.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	for attempt := 0; ; attempt++ {
		body, err := f.inner.Fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		if attempt >= f.maxRetries || !transient(err) {
			return "", err
		}

		wait := f.delay(attempt+1, err)
		f.logger.Warn("fetch failed, retrying",
			"url", url,
			"retry", attempt+1,
			"of", f.maxRetries,
			"wait", wait,
			"error", err,
		)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", fmt.Errorf("waiting to retry %s: %w", url, ctx.Err())
		case <-t.C:
		}
	}
}

// delay returns the wait before the given retry (1-based).
func (f *RetryFetcher) delay(retry int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	d := f.baseDelay << (retry - 1)
	spread := 0.3 * (2*rand.Float64() - 1)
	return d + time.Duration(spread*float64(d))
}

// transient reports whether err is worth another attempt. Context errors
// and 4xx other than 429 are final.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	return true
}
