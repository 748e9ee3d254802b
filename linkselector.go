package docvec

// LinkSelector discovers outbound links on a page.
type LinkSelector interface {
	// ExtractLinks parses HTML and returns absolute HTTP(S) links in
	// document order. The baseURL is used to resolve relative URLs.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
