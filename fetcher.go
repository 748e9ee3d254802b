package docvec

import "context"

// Fetcher retrieves page markup from URLs.
type Fetcher interface {
	// Fetch returns the body of the page at url. A non-success status is
	// an error. The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
