package docvec

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms extracted article HTML into Markdown. Identical
	// input always yields byte-identical output.
	Convert(html string) (string, error)
}
