package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/docvec"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays calls fetch until it succeeds, sleeping delays[i]
// before retry i+1. It makes len(delays)+1 attempts at most.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		body, err := fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}

var _ docvec.Fetcher = (*RetryFetcher)(nil)

// RetryFetcher retries a wrapped Fetcher with backoff. It is meant for
// single critical downloads such as the policy feed; crawled pages are
// never retried.
type RetryFetcher struct {
	Fetcher docvec.Fetcher
	Delays  []time.Duration
	Logger  LogFunc
}

// Fetch fetches url, retrying on error.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	delays := f.Delays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, url, f.Fetcher.Fetch, f.Logger, delays)
}

// Close closes the wrapped Fetcher.
func (f *RetryFetcher) Close() error {
	return f.Fetcher.Close()
}
