package main

import (
	"fmt"

	"github.com/fwojciec/docvec"
	"github.com/fwojciec/docvec/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	all, err := LoadSources(c.SourcesFile)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvec.ErrorMessage(err))
		return err
	}
	sources, err := SelectSources(all, c.Sources)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvec.ErrorMessage(err))
		return err
	}

	failed := 0
	for _, src := range sources {
		if c.Budget > 0 {
			src.Budget = c.Budget
		}
		if c.Concurrency > 0 {
			src.Concurrency = c.Concurrency
		}

		docs, err := c.crawlSource(deps, src)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error crawling %s: %s\n", src.Name, docvec.ErrorMessage(err))
			return err
		}

		if c.DryRun {
			for _, d := range docs {
				fmt.Fprintf(deps.Stdout, "%s\t%s\n", d.URL, d.Title)
			}
		} else {
			report, err := indexDocuments(deps, src.Name, docs)
			if err != nil {
				return err
			}
			failed += report.Failed
		}

		if err := exportDocuments(deps, c.Out, src.Name, docs); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d documents failed to index", failed)
	}
	return nil
}

func (c *CrawlCmd) crawlSource(deps *Dependencies, src docvec.Source) ([]*docvec.Document, error) {
	crawler, closeFn, err := deps.NewCrawler(src, c.Browser)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Crawling %s (budget %d)\n", src.Name, src.RequestBudget())
		case crawl.ProgressSkipped:
			deps.Logger.Debug("no content", "url", event.URL)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Error)
		case crawl.ProgressDraining:
			deps.Logger.Debug("budget reached, draining", "source", src.Name, "issued", event.Issued)
		}
	}
	if deps.Metrics != nil {
		progress = deps.Metrics.CrawlProgress(src.Name, progress)
	}

	result, err := crawler.Crawl(deps.Ctx, src, progress)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(deps.Stdout, "  Crawled %d URLs: %d saved, %d without content, %d failed (%s)\n",
		result.Issued, result.Saved, result.Skipped, result.Failed, formatBytes(result.Bytes))
	return result.Documents, nil
}
