package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/docvec/crawl"
	"github.com/fwojciec/docvec/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

	t.Run("returns first success", func(t *testing.T) {
		t.Parallel()
		calls := 0
		body, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", func(context.Context, string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("temporary")
			}
			return "ok", nil
		}, nil, delays)

		require.NoError(t, err)
		assert.Equal(t, "ok", body)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error after all attempts", func(t *testing.T) {
		t.Parallel()
		calls := 0
		var logged []string
		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", func(context.Context, string) (string, error) {
			calls++
			return "", errors.New("down")
		}, func(format string, _ ...any) {
			logged = append(logged, format)
		}, delays)

		assert.EqualError(t, err, "down")
		assert.Equal(t, 4, calls)
		assert.Len(t, logged, 3)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com", func(context.Context, string) (string, error) {
			calls++
			cancel()
			return "", errors.New("down")
		}, nil, []time.Duration{time.Hour})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestRetryFetcher(t *testing.T) {
	t.Parallel()

	calls := 0
	closed := false
	f := &crawl.RetryFetcher{
		Fetcher: &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				calls++
				if calls == 1 {
					return "", errors.New("reset")
				}
				return "{}", nil
			},
			CloseFn: func() error {
				closed = true
				return nil
			},
		},
		Delays: []time.Duration{time.Millisecond},
	}

	body, err := f.Fetch(context.Background(), "https://example.com/feed.json")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, "{}", body)
	assert.Equal(t, 2, calls)
	assert.True(t, closed)
}
