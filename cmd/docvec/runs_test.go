package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/docvec"
	main "github.com/fwojciec/docvec/cmd/docvec"
	"github.com/fwojciec/docvec/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists runs with status", func(t *testing.T) {
		t.Parallel()

		var filter docvec.RunFilter
		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, f docvec.RunFilter) ([]*docvec.Report, error) {
				filter = f
				return []*docvec.Report{
					{RunID: "run-2", Source: "cloud-docs", Attempted: 10, Succeeded: 9, Failed: 1,
						StartedAt: time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC), Duration: 2 * time.Second},
					{RunID: "run-1", Source: "admin-docs", Attempted: 5, Succeeded: 5,
						StartedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), Duration: 300 * time.Millisecond},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		cmd := &main.RunsCmd{Source: "cloud-docs", Limit: 10}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, filter.Source)
		assert.Equal(t, "cloud-docs", *filter.Source)
		assert.Equal(t, 10, filter.Limit)

		out := stdout.String()
		assert.Contains(t, out, "run-2")
		assert.Contains(t, out, "9/10")
		assert.Contains(t, out, "1 failed")
		assert.Contains(t, out, "run-1")
		assert.Contains(t, out, "5/5")
		assert.Contains(t, out, "300ms")
	})

	t.Run("shows helpful message when no runs exist", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(context.Context, docvec.RunFilter) ([]*docvec.Report, error) {
				return nil, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		require.NoError(t, (&main.RunsCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "No runs found")
	})

	t.Run("reports lookup errors", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(context.Context, docvec.RunFilter) ([]*docvec.Report, error) {
				return nil, docvec.Errorf(docvec.EINTERNAL, "database locked")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Runs: runs}

		require.Error(t, (&main.RunsCmd{}).Run(deps))
		assert.Contains(t, stderr.String(), "error: database locked")
	})
}
