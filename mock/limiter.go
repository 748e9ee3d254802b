package mock

import (
	"context"

	"github.com/fwojciec/docvec"
)

var _ docvec.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of docvec.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
