package upstash_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/docvec"
	"github.com/fwojciec/docvec/upstash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	path string
	auth string
	body map[string]any
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&rec.body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestIndex_Upsert(t *testing.T) {
	t.Parallel()

	t.Run("posts data and metadata with bearer token", func(t *testing.T) {
		t.Parallel()

		srv, rec := newServer(t, http.StatusOK, `{"result":"Success"}`)
		idx, err := upstash.NewIndex(srv.URL+"/", "secret", upstash.WithHTTPClient(srv.Client()))
		require.NoError(t, err)

		err = idx.Upsert(context.Background(), "chrome-policy-1", "# Policy: HomepageLocation", map[string]any{
			"kind":       "chrome-enterprise-policy",
			"deprecated": false,
		})

		require.NoError(t, err)
		assert.Equal(t, "/upsert-data", rec.path)
		assert.Equal(t, "Bearer secret", rec.auth)
		assert.Equal(t, "chrome-policy-1", rec.body["id"])
		assert.Equal(t, "# Policy: HomepageLocation", rec.body["data"])
		assert.Equal(t, map[string]any{"kind": "chrome-enterprise-policy", "deprecated": false}, rec.body["metadata"])
	})

	t.Run("reports service errors", func(t *testing.T) {
		t.Parallel()

		srv, _ := newServer(t, http.StatusBadRequest, `{"error":"Data size exceeds limit","status":400}`)
		idx, err := upstash.NewIndex(srv.URL, "secret", upstash.WithHTTPClient(srv.Client()))
		require.NoError(t, err)

		err = idx.Upsert(context.Background(), "doc", "text", nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "upstash upsert doc")
		assert.Contains(t, err.Error(), "Data size exceeds limit")
	})

	t.Run("reports non-JSON failures", func(t *testing.T) {
		t.Parallel()

		srv, _ := newServer(t, http.StatusBadGateway, `upstream down`)
		idx, err := upstash.NewIndex(srv.URL, "secret", upstash.WithHTTPClient(srv.Client()))
		require.NoError(t, err)

		err = idx.Upsert(context.Background(), "doc", "text", nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "upstash upsert doc")
	})

	t.Run("writes to the configured namespace", func(t *testing.T) {
		t.Parallel()

		srv, rec := newServer(t, http.StatusOK, `{"result":"Success"}`)
		idx, err := upstash.NewIndex(srv.URL, "secret",
			upstash.WithHTTPClient(srv.Client()), upstash.WithNamespace("policies"))
		require.NoError(t, err)

		require.NoError(t, idx.Upsert(context.Background(), "doc", "text", nil))
		assert.Equal(t, "/upsert-data/policies", rec.path)
	})

	t.Run("does not call the service once canceled", func(t *testing.T) {
		t.Parallel()

		srv, rec := newServer(t, http.StatusOK, `{"result":"Success"}`)
		idx, err := upstash.NewIndex(srv.URL, "secret", upstash.WithHTTPClient(srv.Client()))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err = idx.Upsert(ctx, "doc", "text", nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, rec.path)
	})
}

func TestIndex_Query(t *testing.T) {
	t.Parallel()

	t.Run("returns hits with data and metadata", func(t *testing.T) {
		t.Parallel()

		srv, rec := newServer(t, http.StatusOK, `{"result":[
			{"id":"https://support.google.com/chrome/a/answer/1","score":0.92,"data":"Enroll devices","metadata":{"title":"Enroll"}},
			{"id":"https://support.google.com/chrome/a/answer/2","score":0.81,"data":"Wipe devices"}
		]}`)
		idx, err := upstash.NewIndex(srv.URL, "secret", upstash.WithHTTPClient(srv.Client()))
		require.NoError(t, err)

		hits, err := idx.Query(context.Background(), "enroll chromebooks", 2)

		require.NoError(t, err)
		assert.Equal(t, "/query-data", rec.path)
		assert.Equal(t, "enroll chromebooks", rec.body["data"])
		assert.Equal(t, float64(2), rec.body["topK"])
		assert.Equal(t, true, rec.body["includeData"])
		assert.Equal(t, true, rec.body["includeMetadata"])
		require.Len(t, hits, 2)
		assert.Equal(t, "https://support.google.com/chrome/a/answer/1", hits[0].ID)
		assert.InDelta(t, 0.92, hits[0].Score, 1e-6)
		assert.Equal(t, "Enroll devices", hits[0].Text)
		assert.Equal(t, map[string]any{"title": "Enroll"}, hits[0].Metadata)
		assert.Nil(t, hits[1].Metadata)
	})

	t.Run("rejects non-positive topK", func(t *testing.T) {
		t.Parallel()

		idx, err := upstash.NewIndex("https://example.upstash.io", "secret")
		require.NoError(t, err)

		_, err = idx.Query(context.Background(), "q", 0)

		assert.Equal(t, docvec.EINVALID, docvec.ErrorCode(err))
	})
}

func TestNewIndex(t *testing.T) {
	t.Parallel()

	_, err := upstash.NewIndex("", "token")
	assert.Equal(t, docvec.EINVALID, docvec.ErrorCode(err))

	_, err = upstash.NewIndex("https://example.upstash.io", "")
	assert.Equal(t, docvec.EINVALID, docvec.ErrorCode(err))
}
