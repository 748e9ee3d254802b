package docvec

import "context"

// DomainLimiter spaces out requests to a single host so a crawl stays polite
// toward the documentation site it is reading.
type DomainLimiter interface {
	// Wait returns once a request to domain may proceed, or with ctx's error.
	Wait(ctx context.Context, domain string) error
}
