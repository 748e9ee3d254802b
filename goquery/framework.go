package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docvec"
)

// Framework identifies the documentation generator that produced a page.
type Framework string

// Recognized frameworks.
const (
	FrameworkUnknown    Framework = ""
	FrameworkDevsite    Framework = "devsite"
	FrameworkDocusaurus Framework = "docusaurus"
	FrameworkMkDocs     Framework = "mkdocs"
	FrameworkSphinx     Framework = "sphinx"
	FrameworkVitePress  Framework = "vitepress"
	FrameworkVuePress   Framework = "vuepress"
	FrameworkGitBook    Framework = "gitbook"
	FrameworkNextra     Framework = "nextra"
)

// layout names where a framework puts the article and its navigation.
type layout struct {
	content string
	links   string
}

var layouts = map[Framework]layout{
	FrameworkDevsite: {
		content: ".devsite-article-body",
		links:   "devsite-book-nav a[href], .devsite-article-body a[href]",
	},
	FrameworkDocusaurus: {
		content: "article .theme-doc-markdown, article",
		links:   ".theme-doc-sidebar-container a[href], .table-of-contents a[href], article a[href]",
	},
	FrameworkMkDocs: {
		content: ".md-content__inner, .md-content",
		links:   ".md-nav--primary a[href], [data-md-component='navigation'] a[href], .md-content a[href]",
	},
	FrameworkSphinx: {
		content: "[role='main'], .body, .document",
		links:   ".toctree-wrapper a[href], .wy-menu-vertical a[href], .sphinxsidebar a[href], .body a[href]",
	},
	FrameworkVitePress: {
		content: ".vp-doc, .VPDoc",
		links:   ".VPSidebar a[href], .VPDoc a[href]",
	},
	FrameworkVuePress: {
		content: ".theme-default-content",
		links:   ".sidebar-links a[href], .sidebar a[href], .theme-default-content a[href]",
	},
	FrameworkGitBook: {
		content: "[data-testid='page.contentEditor'], main",
		links:   "[data-testid='space.sidebar'] a[href], [data-testid='page.contentEditor'] a[href]",
	},
	FrameworkNextra: {
		content: "article, main",
		links:   ".nextra-sidebar a[href], .nextra-toc a[href], main a[href]",
	},
}

// generators maps substrings of <meta name="generator"> to frameworks.
var generators = []struct {
	needle    string
	framework Framework
}{
	{"sphinx", FrameworkSphinx},
	{"gitbook", FrameworkGitBook},
	{"docusaurus", FrameworkDocusaurus},
	{"mkdocs", FrameworkMkDocs},
	{"vitepress", FrameworkVitePress},
	{"vuepress", FrameworkVuePress},
	{"nextra", FrameworkNextra},
}

// markers are structural selectors unique to each framework, checked in
// order when the generator tag is absent.
var markers = []struct {
	framework Framework
	selector  string
}{
	{FrameworkDevsite, "devsite-content, .devsite-article-body"},
	{FrameworkDocusaurus, "#__docusaurus_skipToContent_fallback, .theme-doc-sidebar-container"},
	{FrameworkMkDocs, "[data-md-color-scheme], [data-md-component], .md-nav--primary"},
	{FrameworkSphinx, ".toctree-wrapper, .wy-nav-side, .wy-menu-vertical, .sphinxsidebar"},
	{FrameworkVitePress, "#VPContent, .VPDoc, .VPDocAsideOutline"},
	{FrameworkVuePress, ".theme-default-content, .sidebar-links, .vuepress-navbar"},
	{FrameworkGitBook, "[data-testid='space.sidebar'], [data-testid='page.desktopTableOfContents']"},
	{FrameworkNextra, ".nextra-navbar, .nextra-sidebar, .nextra-toc"},
}

// DetectFramework identifies the generator of doc from its meta generator
// tag or, failing that, from framework-specific markup.
func DetectFramework(doc *goquery.Document) Framework {
	if gen, ok := doc.Find("meta[name='generator']").Last().Attr("content"); ok {
		gen = strings.ToLower(gen)
		for _, g := range generators {
			if strings.Contains(gen, g.needle) {
				return g.framework
			}
		}
	}
	for _, m := range markers {
		if doc.Find(m.selector).Length() > 0 {
			return m.framework
		}
	}
	if hasGitBookClasses(doc) {
		return FrameworkGitBook
	}
	return FrameworkUnknown
}

// hasGitBookClasses reports whether the html element carries at least two of
// GitBook's theme classes.
func hasGitBookClasses(doc *goquery.Document) bool {
	class, _ := doc.Find("html").Attr("class")
	n := 0
	for _, c := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(class, c) {
			n++
		}
	}
	return n >= 2
}

var _ docvec.Extractor = (*FrameworkExtractor)(nil)

// FrameworkExtractor selects the article region by recognizing the page's
// documentation framework. Pages from unrecognized generators go to
// Fallback.
type FrameworkExtractor struct {
	// Fallback handles pages whose framework is unknown or whose layout
	// yields no content. Unknown pages yield empty content when nil.
	Fallback docvec.Extractor

	// BoilerplateMarker defaults to docvec.DefaultBoilerplateMarker.
	BoilerplateMarker string
}

// Extract returns the framework's article region with trailing boilerplate
// removed. The title is the direct text of the first h1 in the article, or
// the document title.
func (e *FrameworkExtractor) Extract(rawHTML string) (*docvec.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docvec.Errorf(docvec.EINVALID, "failed to parse HTML: %v", err)
	}

	l, ok := layouts[DetectFramework(doc)]
	if !ok {
		return e.fallback(rawHTML)
	}
	article := doc.Find(l.content).First()
	if article.Length() == 0 {
		return e.fallback(rawHTML)
	}
	inner, err := article.Html()
	if err != nil {
		return nil, docvec.Errorf(docvec.EINTERNAL, "failed to render article: %v", err)
	}

	marker := e.BoilerplateMarker
	if marker == "" {
		marker = docvec.DefaultBoilerplateMarker
	}
	title := directText(article.Find("h1").First())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return &docvec.ExtractResult{
		Title:       title,
		ContentHTML: docvec.StripBoilerplate(inner, marker),
	}, nil
}

func (e *FrameworkExtractor) fallback(rawHTML string) (*docvec.ExtractResult, error) {
	if e.Fallback == nil {
		return &docvec.ExtractResult{}, nil
	}
	return e.Fallback.Extract(rawHTML)
}

var _ docvec.LinkSelector = (*FrameworkLinkSelector)(nil)

// FrameworkLinkSelector follows the navigation and article links of the
// page's documentation framework, or every anchor when the framework is
// unknown.
type FrameworkLinkSelector struct {
	SameHost bool
}

// ExtractLinks returns absolute HTTP(S) links in document order, without
// fragments and without duplicates.
func (s *FrameworkLinkSelector) ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docvec.Errorf(docvec.EINVALID, "invalid base URL: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docvec.Errorf(docvec.EINVALID, "failed to parse HTML: %v", err)
	}

	selector := DefaultLinkSelector
	if l, ok := layouts[DetectFramework(doc)]; ok {
		selector = l.links
	}
	return collectLinks(doc, base, selector, s.SameHost), nil
}
