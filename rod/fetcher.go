// Package rod fetches JavaScript-rendered pages with a headless browser.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/docvec"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
// Kept consistent with http.DefaultFetchTimeout.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements docvec.Fetcher at compile time.
var _ docvec.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager  *browserManager
	headers  []string
	timeout  time.Duration
	maxPages int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHeaders sets extra request headers on every page.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		for k, v := range headers {
			f.headers = append(f.headers, k, v)
		}
	}
}

// WithTimeout bounds each page render. Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxPages sets how many pages are rendered before the browser is
// relaunched. Defaults to DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	m, err := newBrowserManager(f.maxPages)
	if err != nil {
		return nil, err
	}
	f.manager = m
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML. A main
// document answered with a non-2xx status is an error, like in the plain
// HTTP fetcher.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, release, err := f.manager.acquire()
	if err != nil {
		return "", err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	if len(f.headers) > 0 {
		restore, err := page.SetExtraHeaders(f.headers)
		if err != nil {
			return "", err
		}
		defer restore()
	}

	page = page.Context(ctx).Timeout(f.timeout)

	status := 0
	waitDocument := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument || e.FrameID != page.FrameID {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	waitDocument()
	if err := page.GetContext().Err(); err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("HTTP %d for %s", status, url)
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	return page.HTML()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.pid()
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.close()
}
