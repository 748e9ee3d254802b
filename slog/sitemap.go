package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docvec"
)

// Ensure LoggingSitemapService implements docvec.SitemapService.
var _ docvec.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   docvec.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next docvec.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the outcome at
// info level, since it runs once per seed.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *docvec.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		args := []any{"url", baseURL, "count", len(urls), "filter", filter.String(), "duration", time.Since(begin)}
		if err != nil {
			s.logger.WarnContext(ctx, "sitemap discovery", append(args, "err", err)...)
			return
		}
		s.logger.InfoContext(ctx, "sitemap discovery", args...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
