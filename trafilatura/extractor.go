// Package trafilatura extracts main content from pages that have no known
// article container.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/docvec"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docvec.Extractor at compile time.
var _ docvec.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	// BoilerplateMarker truncates the extracted content at its first
	// occurrence. Empty disables stripping.
	BoilerplateMarker string
}

// NewExtractor creates an Extractor using the default boilerplate marker.
func NewExtractor() *Extractor {
	return &Extractor{BoilerplateMarker: docvec.DefaultBoilerplateMarker}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docvec.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docvec.Errorf(docvec.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &docvec.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: docvec.StripBoilerplate(contentHTML, e.BoilerplateMarker),
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
