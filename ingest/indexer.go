// Package ingest loads documents into a vector index in sequential batches.
package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/docvec"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BatchEvent reports the outcome of one settled batch.
type BatchEvent struct {
	Batch     int // 1-based
	Batches   int
	Size      int
	Succeeded int
	Failed    int
}

// BatchProgressFunc is called after every batch settles.
type BatchProgressFunc func(event BatchEvent)

// Indexer upserts documents into an Index. Documents within a batch are
// upserted in parallel; a batch settles completely before the next starts.
type Indexer struct {
	Index docvec.Index

	// BatchSize defaults to docvec.DefaultBatchSize.
	BatchSize int

	// Concurrency bounds in-flight upserts within a batch. Defaults to BatchSize.
	Concurrency int

	// MaxContentBytes defaults to docvec.MaxContentBytes.
	MaxContentBytes int

	Progress BatchProgressFunc

	// Now is used for run timestamps; time.Now when nil.
	Now func() time.Time
}

// IndexAll upserts every document and returns a report. A failed upsert is
// recorded in the report and never cancels its siblings or later batches.
// Documents without an ID or URL, and repeats of an earlier ID, are never
// sent and are reported as failures. The returned error is non-nil only
// when the Indexer has no Index.
func (x *Indexer) IndexAll(ctx context.Context, docs []*docvec.Document) (*docvec.Report, error) {
	if x.Index == nil {
		return nil, docvec.Errorf(docvec.EINVALID, "index required")
	}

	now := time.Now
	if x.Now != nil {
		now = x.Now
	}
	batchSize := x.BatchSize
	if batchSize <= 0 {
		batchSize = docvec.DefaultBatchSize
	}
	concurrency := x.Concurrency
	if concurrency <= 0 {
		concurrency = batchSize
	}
	limit := x.MaxContentBytes
	if limit <= 0 {
		limit = docvec.MaxContentBytes
	}

	report := &docvec.Report{
		RunID:     uuid.NewString(),
		StartedAt: now(),
	}

	docs, rejected := partitionValid(docs)
	report.Attempted = len(rejected)
	report.Failed = len(rejected)
	report.Failures = rejected

	batches := (len(docs) + batchSize - 1) / batchSize
	for b := 0; b < batches; b++ {
		start := b * batchSize
		end := min(start+batchSize, len(docs))
		failures := x.indexBatch(ctx, docs[start:end], concurrency, limit)

		report.Attempted += end - start
		report.Failed += len(failures)
		report.Succeeded += end - start - len(failures)
		report.Failures = append(report.Failures, failures...)

		if x.Progress != nil {
			x.Progress(BatchEvent{
				Batch:     b + 1,
				Batches:   batches,
				Size:      end - start,
				Succeeded: end - start - len(failures),
				Failed:    len(failures),
			})
		}
	}

	report.Duration = now().Sub(report.StartedAt)
	return report, nil
}

// indexBatch upserts a single batch and waits for every call to settle.
func (x *Indexer) indexBatch(ctx context.Context, batch []*docvec.Document, concurrency, limit int) []docvec.Failure {
	var (
		mu       sync.Mutex
		failures []docvec.Failure
	)

	// Plain Group: errors are collected, not propagated, so no sibling is
	// canceled.
	var g errgroup.Group
	g.SetLimit(concurrency)
	for _, doc := range batch {
		g.Go(func() error {
			content := docvec.TruncateContent(doc.Content, limit)
			if err := x.Index.Upsert(ctx, doc.ID, content, doc.Fields()); err != nil {
				mu.Lock()
				failures = append(failures, docvec.Failure{
					ID:    doc.ID,
					Title: doc.Title,
					Error: err.Error(),
				})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return failures
}

// partitionValid splits docs into those that can be sent and failures for
// the rest, keeping the first document for any repeated ID.
func partitionValid(docs []*docvec.Document) ([]*docvec.Document, []docvec.Failure) {
	var (
		valid    = make([]*docvec.Document, 0, len(docs))
		rejected []docvec.Failure
		seen     = make(map[string]struct{}, len(docs))
	)
	for _, d := range docs {
		if d == nil {
			rejected = append(rejected, docvec.Failure{Error: "nil document"})
			continue
		}
		if err := d.Validate(); err != nil {
			rejected = append(rejected, docvec.Failure{ID: d.ID, Title: d.Title, Error: docvec.ErrorMessage(err)})
			continue
		}
		if _, ok := seen[d.ID]; ok {
			rejected = append(rejected, docvec.Failure{ID: d.ID, Title: d.Title, Error: "duplicate document ID"})
			continue
		}
		seen[d.ID] = struct{}{}
		valid = append(valid, d)
	}
	return valid, rejected
}
