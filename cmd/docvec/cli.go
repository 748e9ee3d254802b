package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/docvec"
	"github.com/fwojciec/docvec/crawl"
	"github.com/fwojciec/docvec/ingest"
	dvprom "github.com/fwojciec/docvec/prometheus"
)

// CrawlerFactory builds a crawler for a source. The returned close function
// releases the crawler's fetcher.
type CrawlerFactory func(src docvec.Source, browser bool) (*crawl.Crawler, func() error, error)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Index      docvec.Index
	Runs       docvec.RunService
	PolicyFeed docvec.PolicyFeed
	NewCrawler CrawlerFactory

	BatchSize        int
	IndexConcurrency int

	// Metrics is nil unless --metrics-addr is set.
	Metrics *dvprom.Metrics
}

// Indexer returns a batch indexer over the configured index.
func (d *Dependencies) Indexer(progress ingest.BatchProgressFunc) *ingest.Indexer {
	if d.Metrics != nil {
		progress = d.Metrics.BatchProgress(progress)
	}
	return &ingest.Indexer{
		Index:       d.Index,
		BatchSize:   d.BatchSize,
		Concurrency: d.IndexConcurrency,
		Progress:    progress,
	}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB               string `name:"db" env:"DOCVEC_DB" help:"Path to the SQLite database"`
	Store            string `enum:"upstash,sqlite" default:"upstash" help:"Vector store (upstash or sqlite)"`
	BatchSize        int    `default:"100" help:"Documents per indexing batch"`
	IndexConcurrency int    `help:"Concurrent upserts within a batch (default: batch size)"`
	MetricsAddr      string `help:"Serve Prometheus metrics on this address while running"`
	Verbose          bool   `short:"v" help:"Enable debug logging"`

	UpstashURL   string `name:"upstash-url" env:"UPSTASH_VECTOR_REST_URL" help:"Upstash Vector REST URL"`
	UpstashToken string `name:"upstash-token" env:"UPSTASH_VECTOR_REST_TOKEN" help:"Upstash Vector REST token"`
	GeminiAPIKey string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key for the sqlite store"`

	Crawl    CrawlCmd    `cmd:"" help:"Crawl documentation sources and index the pages"`
	Policies PoliciesCmd `cmd:"" help:"Index the Chrome Enterprise policy list"`
	Search   SearchCmd   `cmd:"" help:"Search the index"`
	Runs     RunsCmd     `cmd:"" help:"List recent indexing runs"`
	Sources  SourcesCmd  `cmd:"" help:"List available crawl sources"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Sources     []string `arg:"" name:"source" help:"Source names to crawl"`
	SourcesFile string   `name:"sources" type:"existingfile" help:"YAML file with additional source definitions"`
	Budget      int      `help:"Maximum requests per source (default: 300)"`
	Concurrency int      `short:"c" help:"Concurrent fetches per source (default: 10)"`
	Browser     bool     `help:"Fetch pages with a headless browser"`
	DryRun      bool     `help:"Crawl without indexing and list the documents"`
	Out         string   `type:"path" help:"Also write documents as markdown to <out>/<source>"`
}

// PoliciesCmd is the "policies" subcommand.
type PoliciesCmd struct {
	FeedURL string `default:"${policy_feed_url}" help:"Policy templates JSON URL"`
	DryRun  bool   `help:"Build documents without indexing and print statistics"`
	Out     string `type:"path" help:"Also write documents as markdown to <out>/policies"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Articles SearchArticlesCmd `cmd:"" help:"Search help center and cloud documentation"`
	Policies SearchPoliciesCmd `cmd:"" help:"Search Chrome Enterprise policies"`
}

// SearchArticlesCmd is the "search articles" subcommand.
type SearchArticlesCmd struct {
	Query string `arg:"" help:"Search query"`
	Limit int    `short:"n" default:"5" help:"Maximum results"`
}

// SearchPoliciesCmd is the "search policies" subcommand.
type SearchPoliciesCmd struct {
	Query string `arg:"" help:"Search query"`
	Limit int    `short:"n" default:"5" help:"Maximum results"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Source string `help:"Only show runs for this source"`
	Limit  int    `short:"n" default:"20" help:"Maximum runs to show"`
}

// SourcesCmd is the "sources" subcommand.
type SourcesCmd struct {
	SourcesFile string `name:"sources" type:"existingfile" help:"YAML file with additional source definitions"`
}
