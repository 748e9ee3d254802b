package mock

import (
	"context"

	"github.com/fwojciec/docvec"
)

var _ docvec.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of docvec.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *docvec.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *docvec.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
