package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fwojciec/docvec"
	"github.com/fwojciec/docvec/yaml"
)

// cloudHeaders imitate a desktop Chrome navigation; the cloud docs site
// throttles requests without them.
var cloudHeaders = map[string]string{
	"sec-ch-ua":                 `"Google Chrome";v="141", "Not?A_Brand";v="8", "Chromium";v="141"`,
	"sec-ch-ua-mobile":          "?0",
	"sec-ch-ua-platform":        `"Linux"`,
	"upgrade-insecure-requests": "1",
	"Referer":                   "https://www.google.com/",
}

// BuiltinSources returns the sources available without a sources file.
func BuiltinSources() []docvec.Source {
	return []docvec.Source{
		{
			Name:              "admin-docs",
			Kind:              docvec.KindAdminDocs,
			Seeds:             []string{"https://support.google.com/chrome/a#topic=7679105"},
			Container:         "article",
			LinkSelector:      "article a[href*='/chrome/a/answer/']",
			Include:           []string{`^https://support\.google\.com/chrome/a/answer/\d+`},
			BoilerplateMarker: docvec.DefaultBoilerplateMarker,
		},
		{
			Name:              "cloud-docs",
			Kind:              docvec.KindCloudDocs,
			Seeds:             []string{"https://cloud.google.com/chrome-enterprise-premium/docs/overview"},
			Container:         "article",
			TitleSelector:     "h1.devsite-page-title",
			LinkSelector:      "article a[href*='/chrome-enterprise-premium/']",
			Include:           []string{`^https://cloud\.google\.com/chrome-enterprise-premium/`},
			BoilerplateMarker: docvec.DefaultBoilerplateMarker,
			Headers:           cloudHeaders,
		},
	}
}

// LoadSources merges the built-in sources with those defined in path.
// A file source replaces a built-in source of the same name.
func LoadSources(path string) (map[string]docvec.Source, error) {
	sources := make(map[string]docvec.Source)
	for _, src := range BuiltinSources() {
		sources[src.Name] = src
	}
	if path == "" {
		return sources, nil
	}
	loaded, err := yaml.LoadSources(path)
	if err != nil {
		return nil, err
	}
	for _, src := range loaded {
		sources[src.Name] = src
	}
	return sources, nil
}

// SelectSources returns the named sources in argument order.
func SelectSources(all map[string]docvec.Source, names []string) ([]docvec.Source, error) {
	if len(names) == 0 {
		return nil, docvec.Errorf(docvec.EINVALID, "at least one source required (available: %s)", sourceNames(all))
	}
	selected := make([]docvec.Source, 0, len(names))
	for _, name := range names {
		src, ok := all[name]
		if !ok {
			return nil, docvec.Errorf(docvec.ENOTFOUND, "unknown source %q (available: %s)", name, sourceNames(all))
		}
		selected = append(selected, src)
	}
	return selected, nil
}

func sourceNames(all map[string]docvec.Source) string {
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Run executes the sources command.
func (c *SourcesCmd) Run(deps *Dependencies) error {
	all, err := LoadSources(c.SourcesFile)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvec.ErrorMessage(err))
		return err
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		src := all[name]
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", src.Name, src.Kind, strings.Join(src.Seeds, " "))
	}
	return nil
}
