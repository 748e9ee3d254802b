package mock

import "github.com/fwojciec/docvec"

var _ docvec.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of docvec.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]string, error) {
	return s.ExtractLinksFn(html, baseURL)
}
