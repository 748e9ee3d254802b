package docvec

import "context"

// Hit is a ranked query result from the vector index.
type Hit struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Index is a vector store keyed by document ID.
type Index interface {
	// Upsert stores text and metadata under id, replacing any previous
	// entry with the same id.
	Upsert(ctx context.Context, id, text string, metadata map[string]any) error

	// Query returns at most topK hits ordered by descending score.
	Query(ctx context.Context, text string, topK int) ([]Hit, error)
}

// Embedder turns text into a dense vector.
type Embedder interface {
	// EmbedDocument embeds text that will be stored in an index.
	EmbedDocument(ctx context.Context, text string) ([]float32, error)

	// EmbedQuery embeds a search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
