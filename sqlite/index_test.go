package sqlite_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/docvec"
	"github.com/fwojciec/docvec/mock"
	"github.com/fwojciec/docvec/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordEmbedder maps text onto three axes by keyword presence.
func keywordEmbedder(calls *atomic.Int32) *mock.Embedder {
	embed := func(_ context.Context, text string) ([]float32, error) {
		if calls != nil {
			calls.Add(1)
		}
		v := []float32{0, 0, 0}
		for i, kw := range []string{"printer", "update", "extension"} {
			if strings.Contains(strings.ToLower(text), kw) {
				v[i] = 1
			}
		}
		return v, nil
	}
	return &mock.Embedder{EmbedDocumentFn: embed, EmbedQueryFn: embed}
}

func TestIndex_Upsert(t *testing.T) {
	t.Parallel()

	t.Run("stores text and metadata", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewIndex(setupTestDB(t), keywordEmbedder(nil))
		ctx := context.Background()

		err := idx.Upsert(ctx, "https://support.google.com/chrome/a/answer/1", "Set up printers", map[string]any{
			"articleType": "answer",
			"articleId":   "1",
		})
		require.NoError(t, err)

		hits, err := idx.Query(ctx, "printer", 1)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "https://support.google.com/chrome/a/answer/1", hits[0].ID)
		assert.Equal(t, "Set up printers", hits[0].Text)
		assert.Equal(t, map[string]any{"articleType": "answer", "articleId": "1"}, hits[0].Metadata)
	})

	t.Run("replaces entries with the same ID", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewIndex(setupTestDB(t), keywordEmbedder(nil))
		ctx := context.Background()

		require.NoError(t, idx.Upsert(ctx, "doc", "printer setup", nil))
		require.NoError(t, idx.Upsert(ctx, "doc", "extension policy", nil))

		n, err := idx.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		hits, err := idx.Query(ctx, "extension", 1)
		require.NoError(t, err)
		assert.Equal(t, "extension policy", hits[0].Text)
	})

	t.Run("skips embedding when text is unchanged", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		idx := sqlite.NewIndex(setupTestDB(t), keywordEmbedder(&calls))
		ctx := context.Background()

		require.NoError(t, idx.Upsert(ctx, "doc", "printer setup", map[string]any{"title": "Old"}))
		require.NoError(t, idx.Upsert(ctx, "doc", "printer setup", map[string]any{"title": "New"}))

		assert.Equal(t, int32(1), calls.Load())
		hits, err := idx.Query(ctx, "printer", 1)
		require.NoError(t, err)
		assert.Equal(t, "New", hits[0].Metadata["title"])
	})

	t.Run("returns embedding errors without storing", func(t *testing.T) {
		t.Parallel()

		emb := &mock.Embedder{
			EmbedDocumentFn: func(context.Context, string) ([]float32, error) {
				return nil, errors.New("quota exceeded")
			},
		}
		db := setupTestDB(t)
		idx := sqlite.NewIndex(db, emb)

		err := idx.Upsert(context.Background(), "doc", "text", nil)

		require.ErrorContains(t, err, "quota exceeded")
		n, err := idx.Count(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("requires an ID", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewIndex(setupTestDB(t), keywordEmbedder(nil))

		err := idx.Upsert(context.Background(), "", "text", nil)

		assert.Equal(t, docvec.EINVALID, docvec.ErrorCode(err))
	})
}

func TestIndex_Query(t *testing.T) {
	t.Parallel()

	t.Run("ranks by similarity and limits to topK", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewIndex(setupTestDB(t), keywordEmbedder(nil))
		ctx := context.Background()
		require.NoError(t, idx.Upsert(ctx, "printers", "Printer deployment", nil))
		require.NoError(t, idx.Upsert(ctx, "updates", "Update schedules", nil))
		require.NoError(t, idx.Upsert(ctx, "both", "Printer driver update", nil))

		hits, err := idx.Query(ctx, "update", 2)

		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "updates", hits[0].ID)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
		assert.Equal(t, "both", hits[1].ID)
		assert.Greater(t, hits[0].Score, hits[1].Score)
	})

	t.Run("returns nothing from an empty index", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewIndex(setupTestDB(t), keywordEmbedder(nil))

		hits, err := idx.Query(context.Background(), "printer", 5)

		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("rejects non-positive topK", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewIndex(setupTestDB(t), keywordEmbedder(nil))

		_, err := idx.Query(context.Background(), "printer", 0)

		assert.Equal(t, docvec.EINVALID, docvec.ErrorCode(err))
	})
}
