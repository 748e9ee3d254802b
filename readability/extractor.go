// Package readability extracts main content with the Readability algorithm.
// It suits article-shaped pages where trafilatura drops too much.
package readability

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docvec"
	"github.com/go-shiori/go-readability"
)

var _ docvec.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct {
	// BoilerplateMarker truncates the article at its first occurrence.
	// Empty disables stripping.
	BoilerplateMarker string
}

// NewExtractor creates an Extractor using the default boilerplate marker.
func NewExtractor() *Extractor {
	return &Extractor{BoilerplateMarker: docvec.DefaultBoilerplateMarker}
}

// Extract returns the readable article region and the document title.
func (e *Extractor) Extract(rawHTML string) (*docvec.ExtractResult, error) {
	if docvec.IsBlank(rawHTML) {
		return nil, docvec.Errorf(docvec.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}

	return &docvec.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: docvec.StripBoilerplate(article.Content, e.BoilerplateMarker),
	}, nil
}
