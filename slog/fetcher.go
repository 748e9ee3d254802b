package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docvec"
)

var _ docvec.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher records every page fetch with its size and latency.
type LoggingFetcher struct {
	next   docvec.Fetcher
	logger *slog.Logger
}

func NewLoggingFetcher(next docvec.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		logResult(ctx, f.logger, "fetch", begin, err, "url", url, "bytes", len(html))
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
