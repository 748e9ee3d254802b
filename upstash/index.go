// Package upstash implements docvec.Index over Upstash Vector using the
// official client. The index embeds text server-side, so no Embedder is
// involved.
package upstash

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/docvec"
	vector "github.com/upstash/vector-go"
)

// DefaultTimeout bounds a single REST call. The client has no per-request
// context, so this is also the longest a canceled call can linger.
const DefaultTimeout = 30 * time.Second

var _ docvec.Index = (*Index)(nil)

// Index adapts one Upstash Vector index to docvec.Index.
type Index struct {
	ns *vector.Namespace
}

type options struct {
	httpClient *http.Client
	namespace  string
}

// Option configures an Index.
type Option func(*options)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithNamespace keeps vectors in ns. The empty string is the default
// namespace.
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// NewIndex creates a client for the index at restURL authenticated by token.
func NewIndex(restURL, token string, opts ...Option) (*Index, error) {
	if restURL == "" {
		return nil, docvec.Errorf(docvec.EINVALID, "upstash REST URL required")
	}
	if token == "" {
		return nil, docvec.Errorf(docvec.EINVALID, "upstash REST token required")
	}
	o := options{httpClient: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(&o)
	}

	client := vector.NewIndexWith(vector.Options{
		Url:    strings.TrimRight(restURL, "/"),
		Token:  token,
		Client: o.httpClient,
	})
	return &Index{ns: client.Namespace(o.namespace)}, nil
}

// Upsert stores text under id; Upstash embeds it with the index's model.
func (i *Index) Upsert(ctx context.Context, id, text string, metadata map[string]any) error {
	if id == "" {
		return docvec.Errorf(docvec.EINVALID, "vector ID required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := i.ns.UpsertData(vector.UpsertData{Id: id, Data: text, Metadata: metadata}); err != nil {
		return fmt.Errorf("upstash upsert %s: %w", id, err)
	}
	return nil
}

// Query returns the topK entries most similar to text.
func (i *Index) Query(ctx context.Context, text string, topK int) ([]docvec.Hit, error) {
	if topK <= 0 {
		return nil, docvec.Errorf(docvec.EINVALID, "topK must be positive")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := vector.QueryData{Data: text, TopK: topK, IncludeMetadata: true, IncludeData: true}
	scores, err := i.ns.QueryData(q)
	if err != nil {
		return nil, fmt.Errorf("upstash query: %w", err)
	}

	hits := make([]docvec.Hit, len(scores))
	for n, s := range scores {
		hits[n] = docvec.Hit{ID: s.Id, Score: float64(s.Score), Text: s.Data, Metadata: s.Metadata}
	}
	return hits, nil
}
