package docvec

import (
	"regexp"
	"strings"
)

// DefaultStopWords are common words that carry no retrieval signal.
var DefaultStopWords = []string{
	"this", "that", "with", "from", "have", "will", "your", "when", "what",
	"which", "their", "would", "there", "could", "should", "about", "after",
	"before",
}

// DefaultKeywordMinLength is the shortest word kept as a keyword.
const DefaultKeywordMinLength = 4

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// KeywordExtractor derives search tags from free text.
type KeywordExtractor struct {
	MinLength int
	StopWords []string
}

// NewKeywordExtractor returns an extractor with the default stop words and
// minimum length.
func NewKeywordExtractor() KeywordExtractor {
	return KeywordExtractor{
		MinLength: DefaultKeywordMinLength,
		StopWords: DefaultStopWords,
	}
}

// Extract lowercases text, replaces non-alphanumerics with spaces and
// returns the distinct words that are long enough and not stop words, in
// order of first appearance.
func (k KeywordExtractor) Extract(text string) []string {
	stop := make(map[string]struct{}, len(k.StopWords))
	for _, w := range k.StopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	cleaned := nonAlnum.ReplaceAllString(strings.ToLower(text), " ")

	var out []string
	seen := make(map[string]struct{})
	for _, w := range strings.Fields(cleaned) {
		if len(w) < k.MinLength {
			continue
		}
		if _, ok := stop[w]; ok {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
