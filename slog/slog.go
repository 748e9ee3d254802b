// Package slog decorates docvec services with structured logging.
// Successful calls log at debug level; failures log at warn level with the
// error attached.
package slog

import (
	"context"
	"log/slog"
	"time"
)

// logResult logs msg at debug level, or warn level when err is non-nil.
func logResult(ctx context.Context, logger *slog.Logger, msg string, begin time.Time, err error, args ...any) {
	args = append(args, "duration", time.Since(begin))
	if err != nil {
		logger.WarnContext(ctx, msg, append(args, "err", err)...)
		return
	}
	logger.DebugContext(ctx, msg, args...)
}
