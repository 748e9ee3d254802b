// Package htmltomarkdown converts article HTML to Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/docvec"
)

// Ensure Converter implements docvec.Converter at compile time.
var _ docvec.Converter = (*Converter)(nil)

// tableTags are kept verbatim as HTML so merged cells and nested markup
// survive conversion.
var tableTags = []string{"table", "thead", "tbody", "tr", "td", "th"}

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv           *converter.Converter
	markdownTables bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithMarkdownTables renders tables as Markdown pipe tables instead of
// embedded HTML.
func WithMarkdownTables() Option {
	return func(c *Converter) {
		c.markdownTables = true
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}

	plugins := []converter.Plugin{
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	}
	if c.markdownTables {
		plugins = append(plugins, table.NewTablePlugin())
	}
	c.conv = converter.NewConverter(converter.WithPlugins(plugins...))

	if !c.markdownTables {
		for _, tag := range tableTags {
			c.conv.Register.RendererFor(tag, converter.TagTypeBlock, base.RenderAsHTML, converter.PriorityEarly)
		}
	}
	return c
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", docvec.Errorf(docvec.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return result, nil
}
