package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docvec"
)

// Ensure LoggingIndex implements docvec.Index.
var _ docvec.Index = (*LoggingIndex)(nil)

// LoggingIndex wraps an Index with logging.
type LoggingIndex struct {
	next   docvec.Index
	logger *slog.Logger
}

// NewLoggingIndex creates a new LoggingIndex.
func NewLoggingIndex(next docvec.Index, logger *slog.Logger) *LoggingIndex {
	return &LoggingIndex{next: next, logger: logger}
}

// Upsert delegates to the wrapped index and logs the outcome.
func (i *LoggingIndex) Upsert(ctx context.Context, id, text string, metadata map[string]any) (err error) {
	defer func(begin time.Time) {
		logResult(ctx, i.logger, "upsert", begin, err, "id", id, "bytes", len(text))
	}(time.Now())
	return i.next.Upsert(ctx, id, text, metadata)
}

// Query delegates to the wrapped index and logs the outcome.
func (i *LoggingIndex) Query(ctx context.Context, text string, topK int) (hits []docvec.Hit, err error) {
	defer func(begin time.Time) {
		logResult(ctx, i.logger, "query", begin, err, "query", text, "topK", topK, "hits", len(hits))
	}(time.Now())
	return i.next.Query(ctx, text, topK)
}

// Ensure LoggingEmbedder implements docvec.Embedder.
var _ docvec.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with logging.
type LoggingEmbedder struct {
	next   docvec.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next docvec.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// EmbedDocument delegates to the wrapped embedder and logs the outcome.
func (e *LoggingEmbedder) EmbedDocument(ctx context.Context, text string) (vec []float32, err error) {
	defer func(begin time.Time) {
		logResult(ctx, e.logger, "embed document", begin, err, "bytes", len(text), "dims", len(vec))
	}(time.Now())
	return e.next.EmbedDocument(ctx, text)
}

// EmbedQuery delegates to the wrapped embedder and logs the outcome.
func (e *LoggingEmbedder) EmbedQuery(ctx context.Context, text string) (vec []float32, err error) {
	defer func(begin time.Time) {
		logResult(ctx, e.logger, "embed query", begin, err, "bytes", len(text), "dims", len(vec))
	}(time.Now())
	return e.next.EmbedQuery(ctx, text)
}
