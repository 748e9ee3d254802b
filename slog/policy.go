package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docvec"
)

// Ensure LoggingPolicyFeed implements docvec.PolicyFeed.
var _ docvec.PolicyFeed = (*LoggingPolicyFeed)(nil)

// LoggingPolicyFeed wraps a PolicyFeed with logging.
type LoggingPolicyFeed struct {
	next   docvec.PolicyFeed
	logger *slog.Logger
}

// NewLoggingPolicyFeed creates a new LoggingPolicyFeed.
func NewLoggingPolicyFeed(next docvec.PolicyFeed, logger *slog.Logger) *LoggingPolicyFeed {
	return &LoggingPolicyFeed{next: next, logger: logger}
}

// FetchTemplates delegates to the wrapped feed and logs the definition count.
func (f *LoggingPolicyFeed) FetchTemplates(ctx context.Context) (t *docvec.PolicyTemplates, err error) {
	defer func(begin time.Time) {
		count := 0
		if t != nil {
			count = len(t.PolicyDefinitions)
		}
		args := []any{"definitions", count, "duration", time.Since(begin)}
		if err != nil {
			f.logger.ErrorContext(ctx, "policy feed", append(args, "err", err)...)
			return
		}
		f.logger.InfoContext(ctx, "policy feed", args...)
	}(time.Now())
	return f.next.FetchTemplates(ctx)
}
