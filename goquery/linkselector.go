package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docvec"
)

// DefaultLinkSelector matches every anchor with an href.
const DefaultLinkSelector = "a[href]"

var _ docvec.LinkSelector = (*LinkSelector)(nil)

// LinkSelector extracts links from anchors matching a CSS selector.
type LinkSelector struct {
	// Selector defaults to DefaultLinkSelector.
	Selector string

	// SameHost drops links whose host differs from the page's host.
	SameHost bool
}

// ExtractLinks returns absolute HTTP(S) links in document order, without
// fragments and without duplicates. Self-referential links are dropped.
func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docvec.Errorf(docvec.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docvec.Errorf(docvec.EINVALID, "failed to parse HTML: %v", err)
	}

	selector := s.Selector
	if selector == "" {
		selector = DefaultLinkSelector
	}
	return collectLinks(doc, base, selector, s.SameHost), nil
}

// collectLinks resolves the hrefs of anchors matching selector in document
// order, skipping duplicates and non-HTTP targets.
func collectLinks(doc *goquery.Document, base *url.URL, selector string, sameHost bool) []string {
	seen := make(map[string]struct{})
	var links []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}

		// Skip non-HTTP links (javascript:, mailto:, etc.)
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if sameHost && !isSameHost(base, resolved) {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})
	return links
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed, is not HTTP(S), or if
// the resolved URL is self-referential (same as base URL after stripping
// fragment). Fragments are stripped for deduplication purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	baseNoFragment.RawFragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isSameHost checks if the resolved URL has the same host as the base URL.
// This uses exact host matching - subdomains are considered different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, base.Host)
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
