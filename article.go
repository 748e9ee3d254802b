package docvec

import (
	"net/url"
	"regexp"
	"strings"
)

// Article types derived from help center URLs.
const (
	ArticleTypeAnswer = "answer"
	ArticleTypeTopic  = "topic"
)

var articlePattern = regexp.MustCompile(`/(answer|topic)/(\d+)`)

// ArticleMetadata holds the typed fields derived from a help article URL.
// Both fields are empty when the URL does not follow the article pattern.
type ArticleMetadata struct {
	ArticleType string
	ArticleID   string
}

// ParseArticleURL extracts the article type and numeric ID from a URL.
func ParseArticleURL(rawURL string) ArticleMetadata {
	m := articlePattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ArticleMetadata{}
	}
	return ArticleMetadata{ArticleType: m[1], ArticleID: m[2]}
}

// Fields returns the metadata as store fields. Unmatched URLs yield an
// empty map.
func (m ArticleMetadata) Fields() map[string]any {
	fields := map[string]any{}
	if m.ArticleType != "" {
		fields["articleType"] = m.ArticleType
	}
	if m.ArticleID != "" {
		fields["articleId"] = m.ArticleID
	}
	return fields
}

var headingPrefix = regexp.MustCompile(`^#+\s+`)

// DeriveTitle picks a human-readable label for a crawled page. It prefers
// the extracted title, then the first non-empty markdown line, then a
// placeholder built from the article ID or the URL path.
func DeriveTitle(extracted, markdown, rawURL string) string {
	if t := collapseSpace(extracted); t != "" {
		return t
	}
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if t := collapseSpace(headingPrefix.ReplaceAllString(line, "")); t != "" {
			return t
		}
	}
	if id := ParseArticleURL(rawURL).ArticleID; id != "" {
		return "Article " + id
	}
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return "Article " + u.Path
	}
	return "Article " + rawURL
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
