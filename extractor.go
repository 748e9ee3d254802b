package docvec

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title, empty when the page has none.
	Title string

	// ContentHTML is the article region with trailing boilerplate removed.
	// It is empty when the page lacks a content container, in which case
	// the page is skipped rather than indexed.
	ContentHTML string
}

// Extractor isolates the meaningful article region of a page.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
