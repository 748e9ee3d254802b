package mock

import (
	"context"

	"github.com/fwojciec/docvec"
)

var _ docvec.PolicyFeed = (*PolicyFeed)(nil)

// PolicyFeed is a mock implementation of docvec.PolicyFeed.
type PolicyFeed struct {
	FetchTemplatesFn func(ctx context.Context) (*docvec.PolicyTemplates, error)
}

func (f *PolicyFeed) FetchTemplates(ctx context.Context) (*docvec.PolicyTemplates, error) {
	return f.FetchTemplatesFn(ctx)
}
