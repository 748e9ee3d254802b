// Package gemini implements docvec.Embedder with the Gemini embedding API.
package gemini

import (
	"context"

	"github.com/fwojciec/docvec"
	"google.golang.org/genai"
)

// Defaults for the embedding model.
const (
	DefaultModel      = "gemini-embedding-001"
	DefaultDimensions = 768
)

// Task types understood by the embedding API.
const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

// Ensure Embedder implements docvec.Embedder at compile time.
var _ docvec.Embedder = (*Embedder)(nil)

// Models is the subset of genai.Models used for embedding.
type Models interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Embedder implements docvec.Embedder using Google Gemini.
type Embedder struct {
	models     Models
	model      string
	dimensions int32
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(e *Embedder) {
		e.model = model
	}
}

// WithDimensions overrides DefaultDimensions.
func WithDimensions(n int) Option {
	return func(e *Embedder) {
		e.dimensions = int32(n)
	}
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client, opts ...Option) *Embedder {
	return NewEmbedderWithModels(client.Models, opts...)
}

// NewEmbedderWithModels creates an Embedder over any Models implementation.
func NewEmbedderWithModels(models Models, opts ...Option) *Embedder {
	e := &Embedder{
		models:     models,
		model:      DefaultModel,
		dimensions: DefaultDimensions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EmbedDocument embeds text that will be stored in an index.
func (e *Embedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, taskDocument)
}

// EmbedQuery embeds a search query.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, taskQuery)
}

func (e *Embedder) embed(ctx context.Context, text, task string) ([]float32, error) {
	if docvec.IsBlank(text) {
		return nil, docvec.Errorf(docvec.EINVALID, "cannot embed empty text")
	}

	dims := e.dimensions
	result, err := e.models.EmbedContent(ctx, e.model, genai.Text(text), &genai.EmbedContentConfig{
		TaskType:             task,
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, docvec.Errorf(docvec.EINTERNAL, "gemini returned no embedding")
	}
	return result.Embeddings[0].Values, nil
}
