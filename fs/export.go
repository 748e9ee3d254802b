package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docvec"
	"github.com/goccy/go-yaml"
)

// Exporter writes documents as markdown files with YAML frontmatter.
// Files are written to baseDir/name.tmp and moved to baseDir/name only
// after every document is written, so a failed export leaves the previous
// output in place.
type Exporter struct {
	baseDir string
	name    string
}

// NewExporter creates a new Exporter.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{baseDir: baseDir, name: name}
}

// Dir returns the final output directory.
func (e *Exporter) Dir() string {
	return filepath.Join(e.baseDir, e.name)
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

// Export writes docs and replaces the output directory.
func (e *Exporter) Export(ctx context.Context, docs []*docvec.Document) error {
	if e.name == "" {
		return docvec.Errorf(docvec.EINVALID, "export name required")
	}
	if err := docvec.ValidateDocuments(docs); err != nil {
		return err
	}
	if err := os.RemoveAll(e.tempDir()); err != nil {
		return err
	}

	if err := e.writeAll(ctx, docs); err != nil {
		_ = os.RemoveAll(e.tempDir())
		return err
	}

	if err := os.RemoveAll(e.Dir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.Dir())
}

func (e *Exporter) writeAll(ctx context.Context, docs []*docvec.Document) error {
	if err := os.MkdirAll(e.tempDir(), 0755); err != nil {
		return err
	}

	paths := make(map[string]string, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := DocumentPath(doc.URL)
		if err != nil {
			return err
		}
		if other, ok := paths[rel]; ok {
			return docvec.Errorf(docvec.EINVALID, "documents %q and %q both export to %s", other, doc.ID, rel)
		}
		paths[rel] = doc.ID

		content, err := FormatDocument(doc)
		if err != nil {
			return err
		}

		full := filepath.Join(e.tempDir(), filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

type frontmatter struct {
	ID       string         `yaml:"id"`
	Kind     string         `yaml:"kind"`
	Title    string         `yaml:"title"`
	URL      string         `yaml:"url"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

// FormatDocument renders a document with YAML frontmatter.
func FormatDocument(doc *docvec.Document) (string, error) {
	head, err := yaml.Marshal(frontmatter{
		ID:       doc.ID,
		Kind:     string(doc.Kind),
		Title:    doc.Title,
		URL:      doc.URL,
		Metadata: doc.Metadata,
	})
	if err != nil {
		return "", fmt.Errorf("encode frontmatter for %q: %w", doc.ID, err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(head)
	b.WriteString("---\n\n")
	b.WriteString(doc.Content)
	if !strings.HasSuffix(doc.Content, "\n") {
		b.WriteString("\n")
	}
	return b.String(), nil
}
