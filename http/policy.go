package http

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/docvec"
)

// Ensure PolicyFeed implements docvec.PolicyFeed at compile time.
var _ docvec.PolicyFeed = (*PolicyFeed)(nil)

// PolicyFeed downloads the policy templates JSON document.
type PolicyFeed struct {
	Fetcher docvec.Fetcher

	// URL defaults to docvec.DefaultPolicyFeedURL.
	URL string
}

// NewPolicyFeed returns a feed reading from url through fetcher.
func NewPolicyFeed(fetcher docvec.Fetcher, url string) *PolicyFeed {
	return &PolicyFeed{Fetcher: fetcher, URL: url}
}

// FetchTemplates downloads and decodes the feed.
func (f *PolicyFeed) FetchTemplates(ctx context.Context) (*docvec.PolicyTemplates, error) {
	url := f.URL
	if url == "" {
		url = docvec.DefaultPolicyFeedURL
	}

	body, err := f.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch policy feed: %w", err)
	}

	var templates docvec.PolicyTemplates
	if err := json.Unmarshal([]byte(body), &templates); err != nil {
		return nil, docvec.Errorf(docvec.EINVALID, "policy feed: malformed JSON: %v", err)
	}
	if err := templates.Validate(); err != nil {
		return nil, err
	}
	return &templates, nil
}
