// Package crawl orchestrates bounded-concurrency crawls of documentation
// sources. It coordinates fetching, link discovery, content extraction,
// markdown conversion and metadata enrichment into canonical documents.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/fwojciec/docvec"
)

// Crawler crawls a source starting from its seeds and following the links
// its LinkSelector discovers.
type Crawler struct {
	Fetcher     docvec.Fetcher
	Extractor   docvec.Extractor
	Converter   docvec.Converter
	Links       docvec.LinkSelector
	RateLimiter docvec.DomainLimiter
	Sitemaps    docvec.SitemapService
}

// Result holds the outcome of a crawl run.
type Result struct {
	Documents []*docvec.Document
	Issued    int
	Saved     int
	Skipped   int
	Failed    int
	Bytes     int
}

// ProgressEvent reports progress during a crawl run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Issued    int
	URL       string
	Title     string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressDraining
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	url     string
	links   []string
	doc     *docvec.Document
	skipped bool
	err     error
}

// Crawl runs the source to completion and returns the documents produced.
// Per-page failures are reported through progress and never abort the run.
// The run ends when the queue is empty or the request budget is spent; the
// caller's context is the only other way to stop it.
func (c *Crawler) Crawl(ctx context.Context, src docvec.Source, progress ProgressFunc) (*Result, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	filter, err := src.Filter()
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	state := NewState(src.RequestBudget())
	for _, seed := range src.Seeds {
		state.Enqueue(docvec.Canonicalize(seed))
	}
	if src.Sitemap && c.Sitemaps != nil {
		for _, seed := range src.Seeds {
			urls, err := c.Sitemaps.DiscoverURLs(ctx, seed, filter)
			if err != nil {
				return nil, fmt.Errorf("sitemap discovery: %w", err)
			}
			for _, u := range urls {
				state.Enqueue(docvec.Canonicalize(u))
			}
		}
	}

	var result Result
	completed := 0
	handle := func(res *pageResult, discover bool) {
		if discover {
			for _, link := range res.links {
				canonical := docvec.Canonicalize(link)
				if !filter.Match(canonical) {
					continue
				}
				state.Enqueue(canonical)
			}
		}
		completed++
		event := ProgressEvent{Completed: completed, Issued: state.Issued(), URL: res.url}
		switch {
		case res.err != nil:
			result.Failed++
			event.Type = ProgressFailed
			event.Error = res.err
		case res.skipped:
			result.Skipped++
			event.Type = ProgressSkipped
		default:
			state.Append(res.doc)
			result.Saved++
			result.Bytes += len(res.doc.Content)
			event.Type = ProgressCompleted
			event.Title = res.doc.Title
		}
		progress(event)
	}

	concurrency := src.WorkerCount()
	workCh := make(chan string, concurrency)
	resultCh := make(chan pageResult)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range workCh {
				res := c.processURL(ctx, src, u)
				select {
				case resultCh <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	state.setPhase(PhaseRunning)
	progress(ProgressEvent{Type: ProgressStarted, URL: src.Name})

	draining := false
	startDraining := func() {
		if draining {
			return
		}
		draining = true
		state.setPhase(PhaseDraining)
		progress(ProgressEvent{Type: ProgressDraining, Completed: completed, Issued: state.Issued()})
	}

	pending := 0
	next, hasNext := state.Next()

coordinatorLoop:
	for {
		if !hasNext && pending == 0 {
			break
		}
		if ctx.Err() != nil {
			break
		}

		if hasNext {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case workCh <- next:
				pending++
				hasNext = false
			case res := <-resultCh:
				pending--
				handle(&res, true)
			}
		} else {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case res := <-resultCh:
				pending--
				handle(&res, true)
			}
		}

		if !hasNext {
			next, hasNext = state.Next()
			if !hasNext && state.Issued() >= state.budget {
				startDraining()
			}
		}
	}

	// No new fetches start from here on; in-flight ones complete.
	startDraining()
	close(workCh)
	for res := range resultCh {
		handle(&res, false)
	}

	state.setPhase(PhaseDone)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Documents = state.Documents()
	result.Issued = state.Issued()
	progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Issued: result.Issued})
	return &result, nil
}

// processURL fetches a page and turns it into a document. Discovered links
// are returned for the coordinator to filter and enqueue.
func (c *Crawler) processURL(ctx context.Context, src docvec.Source, pageURL string) pageResult {
	result := pageResult{url: pageURL}

	if c.RateLimiter != nil {
		u, err := url.Parse(pageURL)
		if err != nil {
			result.err = err
			return result
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			result.err = err
			return result
		}
	}

	html, err := c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		result.err = err
		return result
	}

	if c.Links != nil {
		if links, err := c.Links.ExtractLinks(html, pageURL); err == nil {
			result.links = links
		}
	}

	extracted, err := c.Extractor.Extract(html)
	if err != nil {
		result.err = err
		return result
	}
	if docvec.IsBlank(extracted.ContentHTML) {
		result.skipped = true
		return result
	}

	markdown, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		result.err = err
		return result
	}
	if docvec.IsBlank(markdown) {
		result.skipped = true
		return result
	}

	result.doc = PageDocument(src, pageURL, extracted.Title, markdown)
	return result
}

// PageDocument builds the canonical document for a crawled page. The title
// falls back to the first markdown line only for sources without a title
// selector; otherwise to the article placeholder.
func PageDocument(src docvec.Source, canonicalURL, title, markdown string) *docvec.Document {
	titleSource := markdown
	if src.TitleSelector != "" {
		titleSource = ""
	}
	return &docvec.Document{
		ID:       canonicalURL,
		Kind:     src.Kind,
		URL:      canonicalURL,
		Title:    docvec.DeriveTitle(title, titleSource, canonicalURL),
		Content:  markdown,
		Metadata: docvec.ParseArticleURL(canonicalURL).Fields(),
	}
}
