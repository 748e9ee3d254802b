package docvec

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

// MaxContentBytes is the largest document payload the vector store accepts.
const MaxContentBytes = 1 << 20

// Kind distinguishes document families. It selects the metadata shape.
type Kind string

// Document kinds.
const (
	KindAdminDocs Kind = "admin-docs"
	KindCloudDocs Kind = "cloud-docs"
	KindPolicy    Kind = "chrome-enterprise-policy"
)

// Document is the canonical unit persisted to the index.
type Document struct {
	ID       string         `json:"id"`
	Kind     Kind           `json:"kind"`
	URL      string         `json:"url"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	if d.URL == "" {
		return Errorf(EINVALID, "document %q: URL required", d.ID)
	}
	return nil
}

// Fields flattens the document's identity fields and its kind-specific
// metadata into the single mapping stored alongside the vector.
func (d *Document) Fields() map[string]any {
	fields := make(map[string]any, len(d.Metadata)+3)
	for k, v := range d.Metadata {
		fields[k] = v
	}
	fields["kind"] = string(d.Kind)
	fields["title"] = d.Title
	fields["url"] = d.URL
	return fields
}

// ValidateDocuments checks every document and rejects duplicate IDs.
func ValidateDocuments(docs []*Document) error {
	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, ok := seen[d.ID]; ok {
			return Errorf(EINVALID, "duplicate document ID %q", d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}

// TruncateContent returns the prefix of content that fits in limit bytes.
// A multi-byte rune straddling the limit is dropped.
func TruncateContent(content string, limit int) string {
	if limit <= 0 || len(content) <= limit {
		return content
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}

// DefaultBoilerplateMarker is the trailing footer phrase on help center pages.
const DefaultBoilerplateMarker = "Was this helpful?"

// StripBoilerplate discards everything from the first case-insensitive
// occurrence of marker onward. An empty marker leaves html unchanged.
func StripBoilerplate(html, marker string) string {
	if marker == "" {
		return html
	}
	loc := markerPattern(marker).FindStringIndex(html)
	if loc == nil {
		return html
	}
	return html[:loc[0]]
}

// markerPatterns caches one compiled pattern per boilerplate marker.
var markerPatterns sync.Map

func markerPattern(marker string) *regexp.Regexp {
	if re, ok := markerPatterns.Load(marker); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := markerPatterns.LoadOrStore(marker, regexp.MustCompile("(?i)"+regexp.QuoteMeta(marker)))
	return re.(*regexp.Regexp)
}

// IsBlank reports whether s has no content worth indexing.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
