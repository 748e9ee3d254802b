package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docvec"
	main "github.com/fwojciec/docvec/cmd/docvec"
	"github.com/fwojciec/docvec/crawl"
	"github.com/fwojciec/docvec/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawlCmd_Run(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"https://support.google.com/chrome/a": "# Help center\n\nStart here.",
	}

	t.Run("indexes crawled documents and stores the run", func(t *testing.T) {
		t.Parallel()

		index := &recordingIndex{}
		var saved *docvec.Report
		runs := &mock.RunService{
			CreateRunFn: func(_ context.Context, r *docvec.Report) error {
				saved = r
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:        context.Background(),
			Stdout:     stdout,
			Stderr:     &bytes.Buffer{},
			Logger:     discardLogger(),
			Index:      index.mock(),
			Runs:       runs,
			NewCrawler: staticCrawler(pages),
		}

		cmd := &main.CrawlCmd{Sources: []string{"admin-docs"}}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, []string{"https://support.google.com/chrome/a"}, index.ids)
		require.NotNil(t, saved)
		assert.Equal(t, "admin-docs", saved.Source)
		assert.Equal(t, 1, saved.Succeeded)
		assert.NotEmpty(t, saved.RunID)
		assert.Contains(t, stdout.String(), "Batch 1/1: 1 indexed, 0 failed")
	})

	t.Run("applies budget override", func(t *testing.T) {
		t.Parallel()

		var budget int
		factory := staticCrawler(pages)
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Logger: discardLogger(),
			NewCrawler: func(src docvec.Source, browser bool) (*crawl.Crawler, func() error, error) {
				budget = src.Budget
				return factory(src, browser)
			},
		}

		cmd := &main.CrawlCmd{Sources: []string{"cloud-docs"}, Budget: 7, DryRun: true}
		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, 7, budget)
	})

	t.Run("returns error when documents fail to index", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Logger: discardLogger(),
			Index: &mock.Index{
				UpsertFn: func(context.Context, string, string, map[string]any) error {
					return errors.New("quota exceeded")
				},
			},
			Runs: &mock.RunService{
				CreateRunFn: func(context.Context, *docvec.Report) error { return nil },
			},
			NewCrawler: staticCrawler(pages),
		}

		cmd := &main.CrawlCmd{Sources: []string{"admin-docs"}}
		err := cmd.Run(deps)
		require.EqualError(t, err, "1 documents failed to index")
		assert.Contains(t, stderr.String(), "failed https://support.google.com/chrome/a: quota exceeded")
	})

	t.Run("reports crawler construction errors", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Logger: discardLogger(),
			NewCrawler: func(docvec.Source, bool) (*crawl.Crawler, func() error, error) {
				return nil, nil, errors.New("no browser")
			},
		}

		cmd := &main.CrawlCmd{Sources: []string{"admin-docs"}, Browser: true, DryRun: true}
		require.Error(t, cmd.Run(deps))
		assert.Contains(t, stderr.String(), "error crawling admin-docs")
	})

	t.Run("loads sources from file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "sources.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - name: local
    kind: admin-docs
    seeds: ["https://docs.example.com/start"]
    container: main
`), 0o600))

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Logger: discardLogger(),
			NewCrawler: staticCrawler(map[string]string{
				"https://docs.example.com/start": "# Local start",
			}),
		}

		cmd := &main.CrawlCmd{Sources: []string{"local"}, SourcesFile: path, DryRun: true}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "https://docs.example.com/start\tLocal start")
	})
	t.Run("exports markdown when out is set", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:        context.Background(),
			Stdout:     stdout,
			Stderr:     &bytes.Buffer{},
			Logger:     discardLogger(),
			NewCrawler: staticCrawler(pages),
		}

		cmd := &main.CrawlCmd{Sources: []string{"admin-docs"}, DryRun: true, Out: out}
		require.NoError(t, cmd.Run(deps))

		data, err := os.ReadFile(filepath.Join(out, "admin-docs", "support.google.com", "chrome", "a.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "title: Help center")
		assert.Contains(t, stdout.String(), "Wrote 1 documents to")
	})
}
