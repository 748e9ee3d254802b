package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/docvec"
	"golang.org/x/time/rate"
)

var _ docvec.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests per domain using token buckets, so
// crawls of different hosts proceed independently.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewDomainLimiter returns a limiter allowing rps requests per second to
// each domain with a burst of 1. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return NewDomainLimiterWithBurst(rps, 1)
}

// NewDomainLimiterWithBurst is like NewDomainLimiter with a custom burst.
func NewDomainLimiterWithBurst(rps float64, burst int) *DomainLimiter {
	if burst < 1 {
		burst = 1
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Wait blocks until the domain's bucket has a token or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), d.burst)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
