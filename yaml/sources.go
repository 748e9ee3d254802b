// Package yaml loads crawl source definitions from YAML files.
package yaml

import (
	"fmt"
	"os"

	"github.com/fwojciec/docvec"
	"github.com/goccy/go-yaml"
)

type sourcesFile struct {
	Sources []sourceConfig `yaml:"sources"`
}

type sourceConfig struct {
	Name              string            `yaml:"name"`
	Kind              string            `yaml:"kind"`
	Seeds             []string          `yaml:"seeds"`
	Container         string            `yaml:"container"`
	Extractor         string            `yaml:"extractor"`
	TitleSelector     string            `yaml:"title"`
	LinkSelector      string            `yaml:"links"`
	Include           []string          `yaml:"include"`
	Exclude           []string          `yaml:"exclude"`
	BoilerplateMarker string            `yaml:"boilerplate_marker"`
	Headers           map[string]string `yaml:"headers"`
	Sitemap           bool              `yaml:"sitemap"`
	Budget            int               `yaml:"budget"`
	Concurrency       int               `yaml:"concurrency"`
	RateLimit         float64           `yaml:"rate_limit"`
}

func (c sourceConfig) source() docvec.Source {
	return docvec.Source{
		Name:              c.Name,
		Kind:              docvec.Kind(c.Kind),
		Seeds:             c.Seeds,
		Container:         c.Container,
		Extractor:         c.Extractor,
		TitleSelector:     c.TitleSelector,
		LinkSelector:      c.LinkSelector,
		Include:           c.Include,
		Exclude:           c.Exclude,
		BoilerplateMarker: c.BoilerplateMarker,
		Headers:           c.Headers,
		Sitemap:           c.Sitemap,
		Budget:            c.Budget,
		Concurrency:       c.Concurrency,
		RateLimit:         c.RateLimit,
	}
}

// LoadSources reads and validates the sources defined in the file at path.
func LoadSources(path string) ([]docvec.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	return ParseSources(data)
}

// ParseSources decodes and validates source definitions. Unknown keys and
// duplicate source names are rejected.
func ParseSources(data []byte) ([]docvec.Source, error) {
	var file sourcesFile
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.Strict()); err != nil {
		return nil, docvec.Errorf(docvec.EINVALID, "parse sources: %v", err)
	}
	if len(file.Sources) == 0 {
		return nil, docvec.Errorf(docvec.EINVALID, "no sources defined")
	}

	seen := make(map[string]bool, len(file.Sources))
	sources := make([]docvec.Source, 0, len(file.Sources))
	for _, c := range file.Sources {
		src := c.source()
		if err := src.Validate(); err != nil {
			return nil, err
		}
		if seen[src.Name] {
			return nil, docvec.Errorf(docvec.EINVALID, "duplicate source %q", src.Name)
		}
		seen[src.Name] = true
		sources = append(sources, src)
	}
	return sources, nil
}
