package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docvec"
)

// Compile-time interface verification.
var _ docvec.Index = (*Index)(nil)

// Index implements docvec.Index on SQLite. Vectors come from an Embedder;
// queries are ranked by cosine similarity over every stored vector, which
// is adequate for the few thousand documents a source produces.
type Index struct {
	db       *DB
	embedder docvec.Embedder
	now      func() time.Time
}

// NewIndex creates a new Index.
func NewIndex(db *DB, embedder docvec.Embedder) *Index {
	return &Index{db: db, embedder: embedder, now: time.Now}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(content))
	return hex.EncodeToString(b)
}

// Upsert stores text and metadata under id. Unchanged text keeps its stored
// vector, so re-crawls only pay for embedding pages that changed.
func (s *Index) Upsert(ctx context.Context, id, text string, metadata map[string]any) error {
	if id == "" {
		return docvec.Errorf(docvec.EINVALID, "vector ID required")
	}

	meta, err := json.Marshal(nonNil(metadata))
	if err != nil {
		return docvec.Errorf(docvec.EINVALID, "encode metadata for %q: %v", id, err)
	}
	hash := hashContent(text)
	updatedAt := s.now().UTC().Format(time.RFC3339)

	var stored string
	err = s.db.QueryRowContext(ctx, `SELECT content_hash FROM vectors WHERE id = ?`, id).Scan(&stored)
	switch {
	case err == nil && stored == hash:
		_, err = s.db.ExecContext(ctx, `
			UPDATE vectors SET metadata = ?, updated_at = ? WHERE id = ?
		`, string(meta), updatedAt, id)
		return err
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return err
	}

	vec, err := s.embedder.EmbedDocument(ctx, text)
	if err != nil {
		return fmt.Errorf("embed %q: %w", id, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO vectors (id, text, metadata, content_hash, embedding, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			metadata = excluded.metadata,
			content_hash = excluded.content_hash,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`, id, text, string(meta), hash, encodeVector(vec), updatedAt)
	return err
}

// Query embeds text and returns the topK most similar entries.
func (s *Index) Query(ctx context.Context, text string, topK int) ([]docvec.Hit, error) {
	if topK <= 0 {
		return nil, docvec.Errorf(docvec.EINVALID, "topK must be positive")
	}

	q, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, text, metadata, embedding FROM vectors`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []docvec.Hit
	for rows.Next() {
		var (
			hit  docvec.Hit
			meta string
			blob []byte
		)
		if err := rows.Scan(&hit.ID, &hit.Text, &meta, &blob); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(meta), &hit.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %q: %w", hit.ID, err)
		}
		hit.Score = cosine(q, decodeVector(blob))
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Count returns the number of stored vectors.
func (s *Index) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors`).Scan(&n)
	return n, err
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// encodeVector packs v as little-endian float32s.
func encodeVector(v []float32) []byte {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
	return b
}

func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v
}

// cosine returns the cosine similarity of a and b, 0 when either is zero
// or their dimensions differ.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
