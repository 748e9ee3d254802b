package docvec

import (
	"net/url"
)

// Crawl and ingestion defaults.
const (
	DefaultBudget           = 300
	DefaultCrawlConcurrency = 10
	DefaultBatchSize        = 100
)

// Generic extractors used by sources without a container selector.
const (
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"

	// ExtractorFramework recognizes common documentation generators and
	// uses their article and navigation layout, falling back to
	// trafilatura on other sites.
	ExtractorFramework = "framework"
)

// Source is a named crawl configuration: where to start, what to keep and
// which links to follow.
type Source struct {
	Name  string
	Kind  Kind
	Seeds []string

	// Container selects the article region. When empty, a generic main
	// content extractor is used instead.
	Container string

	// Extractor names the generic extractor used without a Container.
	// Defaults to ExtractorTrafilatura.
	Extractor string

	// TitleSelector selects the element whose direct text is the title.
	TitleSelector string

	// LinkSelector selects the anchors followed during the crawl.
	LinkSelector string

	// Include and Exclude are regular expressions over canonical URLs.
	// Links outside the rule are discarded without counting against the
	// budget.
	Include []string
	Exclude []string

	// BoilerplateMarker starts the trailing footer that is discarded.
	BoilerplateMarker string

	// Headers are sent with every page request.
	Headers map[string]string

	// Sitemap adds URLs from the seed host's sitemap to the seeds.
	Sitemap bool

	Budget      int
	Concurrency int

	// RateLimit is the maximum number of requests per second per domain.
	// Zero disables rate limiting.
	RateLimit float64
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "source name required")
	}
	if s.Kind == "" {
		return Errorf(EINVALID, "source %q: kind required", s.Name)
	}
	if len(s.Seeds) == 0 {
		return Errorf(EINVALID, "source %q: at least one seed URL required", s.Name)
	}
	for _, seed := range s.Seeds {
		u, err := url.Parse(seed)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return Errorf(EINVALID, "source %q: invalid seed URL %q", s.Name, seed)
		}
	}
	switch s.Extractor {
	case "", ExtractorTrafilatura, ExtractorReadability, ExtractorFramework:
	default:
		return Errorf(EINVALID, "source %q: unknown extractor %q", s.Name, s.Extractor)
	}
	if s.Budget < 0 || s.Concurrency < 0 || s.RateLimit < 0 {
		return Errorf(EINVALID, "source %q: limits must not be negative", s.Name)
	}
	if _, err := s.Filter(); err != nil {
		return err
	}
	return nil
}

// Filter compiles the source's inclusion rule.
func (s *Source) Filter() (*URLFilter, error) {
	return NewURLFilter(s.Include, s.Exclude)
}

// RequestBudget returns the configured budget or the default.
func (s *Source) RequestBudget() int {
	if s.Budget > 0 {
		return s.Budget
	}
	return DefaultBudget
}

// WorkerCount returns the configured concurrency or the default.
func (s *Source) WorkerCount() int {
	if s.Concurrency > 0 {
		return s.Concurrency
	}
	return DefaultCrawlConcurrency
}
