// Package goquery implements HTML parsing with the goquery library.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docvec"
	"golang.org/x/net/html"
)

var _ docvec.Extractor = (*ContentExtractor)(nil)

// ContentExtractor isolates the article region selected by Container.
type ContentExtractor struct {
	// Container selects the article element. Only the first match is used.
	Container string

	// Title optionally selects the element whose direct text is the title.
	Title string

	// BoilerplateMarker truncates the article at its first occurrence.
	// Defaults to docvec.DefaultBoilerplateMarker.
	BoilerplateMarker string
}

// NewContentExtractor returns an extractor for the container selector using
// the default boilerplate marker.
func NewContentExtractor(container, title string) *ContentExtractor {
	return &ContentExtractor{
		Container:         container,
		Title:             title,
		BoilerplateMarker: docvec.DefaultBoilerplateMarker,
	}
}

// Extract returns the container's inner HTML with trailing boilerplate
// removed. A page without the container yields empty content.
func (e *ContentExtractor) Extract(rawHTML string) (*docvec.ExtractResult, error) {
	if e.Container == "" {
		return nil, docvec.Errorf(docvec.EINVALID, "container selector required")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docvec.Errorf(docvec.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &docvec.ExtractResult{}
	if e.Title != "" {
		result.Title = directText(doc.Find(e.Title).First())
	}

	container := doc.Find(e.Container).First()
	if container.Length() == 0 {
		return result, nil
	}
	inner, err := container.Html()
	if err != nil {
		return nil, docvec.Errorf(docvec.EINTERNAL, "failed to render container: %v", err)
	}

	marker := e.BoilerplateMarker
	if marker == "" {
		marker = docvec.DefaultBoilerplateMarker
	}
	result.ContentHTML = docvec.StripBoilerplate(inner, marker)
	return result, nil
}

// directText joins the text nodes that are immediate children of the
// selection, ignoring nested elements such as badges or buttons.
func directText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		if n := s.Get(0); n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
