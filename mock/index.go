package mock

import (
	"context"

	"github.com/fwojciec/docvec"
)

var _ docvec.Index = (*Index)(nil)

// Index is a mock implementation of docvec.Index.
type Index struct {
	UpsertFn func(ctx context.Context, id, text string, metadata map[string]any) error
	QueryFn  func(ctx context.Context, text string, topK int) ([]docvec.Hit, error)
}

func (i *Index) Upsert(ctx context.Context, id, text string, metadata map[string]any) error {
	return i.UpsertFn(ctx, id, text, metadata)
}

func (i *Index) Query(ctx context.Context, text string, topK int) ([]docvec.Hit, error) {
	return i.QueryFn(ctx, text, topK)
}

var _ docvec.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of docvec.Embedder.
type Embedder struct {
	EmbedDocumentFn func(ctx context.Context, text string) ([]float32, error)
	EmbedQueryFn    func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedDocumentFn(ctx, text)
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedQueryFn(ctx, text)
}
