package main

import (
	"fmt"

	"github.com/fwojciec/docvec"
	"github.com/fwojciec/docvec/fs"
	"github.com/fwojciec/docvec/ingest"
)

// exportDocuments writes docs to dir/name when dir is set.
func exportDocuments(deps *Dependencies, dir, name string, docs []*docvec.Document) error {
	if dir == "" {
		return nil
	}
	e := fs.NewExporter(dir, name)
	if err := e.Export(deps.Ctx, docs); err != nil {
		fmt.Fprintf(deps.Stderr, "error exporting %s: %s\n", name, docvec.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "  Wrote %d documents to %s\n", len(docs), e.Dir())
	return nil
}

// indexDocuments upserts docs, stores the run report and prints a summary.
// Per-document failures are listed but are not returned as an error.
func indexDocuments(deps *Dependencies, source string, docs []*docvec.Document) (*docvec.Report, error) {
	if len(docs) == 0 {
		fmt.Fprintf(deps.Stdout, "  Nothing to index for %s\n", source)
		return &docvec.Report{Source: source}, nil
	}

	progress := func(event ingest.BatchEvent) {
		fmt.Fprintf(deps.Stdout, "  Batch %d/%d: %d indexed, %d failed\n",
			event.Batch, event.Batches, event.Succeeded, event.Failed)
	}
	report, err := deps.Indexer(progress).IndexAll(deps.Ctx, docs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvec.ErrorMessage(err))
		return nil, err
	}
	report.Source = source

	for _, f := range report.Failures {
		fmt.Fprintf(deps.Stderr, "  failed %s: %s\n", f.ID, f.Error)
	}
	fmt.Fprintf(deps.Stdout, "  Indexed %d/%d documents in %s (run %s)\n",
		report.Succeeded, report.Attempted, formatDuration(report.Duration), report.RunID)

	if deps.Runs != nil {
		if err := deps.Runs.CreateRun(deps.Ctx, report); err != nil {
			deps.Logger.Warn("failed to save run report", "run", report.RunID, "err", err)
		}
	}
	return report, nil
}
