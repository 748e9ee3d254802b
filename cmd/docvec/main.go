package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docvec"
	"github.com/fwojciec/docvec/crawl"
	"github.com/fwojciec/docvec/gemini"
	"github.com/fwojciec/docvec/goquery"
	"github.com/fwojciec/docvec/htmltomarkdown"
	dvhttp "github.com/fwojciec/docvec/http"
	dvprom "github.com/fwojciec/docvec/prometheus"
	"github.com/fwojciec/docvec/readability"
	"github.com/fwojciec/docvec/rod"
	dvslog "github.com/fwojciec/docvec/slog"
	"github.com/fwojciec/docvec/sqlite"
	"github.com/fwojciec/docvec/trafilatura"
	"github.com/fwojciec/docvec/upstash"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db and DOCVEC_DB are unset.
	DBPath string

	// SQLite database used for run history and the sqlite store.
	DB *sqlite.DB

	// Logger overrides the terminal logger.
	Logger *slog.Logger

	// Services for end-to-end testing. Nil fields are built from flags.
	Index      docvec.Index
	PolicyFeed docvec.PolicyFeed
	NewCrawler CrawlerFactory
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docvec"),
		kong.Description("Crawl Chrome Enterprise documentation into a vector index"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
		kong.Vars{"policy_feed_url": docvec.DefaultPolicyFeedURL},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docvec --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger := m.Logger
	if logger == nil {
		logger = newLogger(stderr, cli.Verbose)
	}
	deps.Logger = logger
	deps.BatchSize = cli.BatchSize
	deps.IndexConcurrency = cli.IndexConcurrency

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = m.DBPath
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCVEC_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()
	deps.Runs = sqlite.NewRunService(m.DB)

	if cli.MetricsAddr != "" {
		reg := prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		deps.Metrics = dvprom.NewMetrics(reg)
		shutdown := serveMetrics(cli.MetricsAddr, reg, logger)
		defer shutdown()
	}

	needsIndex := cmd == "search" ||
		(cmd == "crawl" && !cli.Crawl.DryRun) ||
		(cmd == "policies" && !cli.Policies.DryRun)
	if needsIndex {
		idx := m.Index
		if idx == nil {
			idx, err = m.openIndex(ctx, cli, logger, stderr)
			if err != nil {
				return err
			}
		}
		idx = dvslog.NewLoggingIndex(idx, logger)
		if deps.Metrics != nil {
			idx = dvprom.NewIndex(idx, deps.Metrics)
		}
		deps.Index = idx
	}

	if cmd == "policies" {
		deps.PolicyFeed = m.PolicyFeed
		if deps.PolicyFeed == nil {
			deps.PolicyFeed = newPolicyFeed(cli.Policies.FeedURL, logger)
		}
	}

	if cmd == "crawl" {
		deps.NewCrawler = m.NewCrawler
		if deps.NewCrawler == nil {
			deps.NewCrawler = newCrawlerFactory(logger)
		}
	}

	return kongCtx.Run(deps)
}

// openIndex builds the vector store selected by --store.
func (m *Main) openIndex(ctx context.Context, cli *CLI, logger *slog.Logger, stderr io.Writer) (docvec.Index, error) {
	switch cli.Store {
	case "sqlite":
		if cli.GeminiAPIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		embedder := dvslog.NewLoggingEmbedder(gemini.NewEmbedder(client), logger)
		return sqlite.NewIndex(m.DB, embedder), nil
	default:
		idx, err := upstash.NewIndex(cli.UpstashURL, cli.UpstashToken)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set UPSTASH_VECTOR_REST_URL and UPSTASH_VECTOR_REST_TOKEN, or use --store=sqlite")
			return nil, err
		}
		return idx, nil
	}
}

// newPolicyFeed returns the policy feed client. The feed is the run's only
// input, so its download is retried.
func newPolicyFeed(url string, logger *slog.Logger) docvec.PolicyFeed {
	fetcher := &crawl.RetryFetcher{
		Fetcher: dvslog.NewLoggingFetcher(dvhttp.NewFetcher(), logger),
		Logger: func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		},
	}
	return dvslog.NewLoggingPolicyFeed(dvhttp.NewPolicyFeed(fetcher, url), logger)
}

// newCrawlerFactory wires a crawler per source. Sources differ in headers,
// selectors and rate limits, so nothing but the sitemap client is shared.
func newCrawlerFactory(logger *slog.Logger) CrawlerFactory {
	sitemaps := dvslog.NewLoggingSitemapService(dvhttp.NewSitemapService(nil), logger)

	return func(src docvec.Source, browser bool) (*crawl.Crawler, func() error, error) {
		var fetcher docvec.Fetcher
		if browser {
			f, err := rod.NewFetcher(rod.WithHeaders(src.Headers))
			if err != nil {
				return nil, nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
			}
			fetcher = f
		} else {
			fetcher = dvhttp.NewFetcher(dvhttp.WithHeaders(src.Headers))
		}
		fetcher = dvslog.NewLoggingFetcher(fetcher, logger)

		c := &crawl.Crawler{
			Fetcher:   fetcher,
			Extractor: newExtractor(src),
			Converter: htmltomarkdown.NewConverter(),
			Links:     newLinkSelector(src),
			Sitemaps:  sitemaps,
		}
		if src.RateLimit > 0 {
			c.RateLimiter = crawl.NewDomainLimiter(src.RateLimit)
		}
		return c, fetcher.Close, nil
	}
}

// newExtractor selects the source's container or, without one, the
// source's generic main content extractor.
func newExtractor(src docvec.Source) docvec.Extractor {
	if src.Container != "" {
		e := goquery.NewContentExtractor(src.Container, src.TitleSelector)
		if src.BoilerplateMarker != "" {
			e.BoilerplateMarker = src.BoilerplateMarker
		}
		return e
	}
	if src.Extractor == docvec.ExtractorReadability {
		e := readability.NewExtractor()
		if src.BoilerplateMarker != "" {
			e.BoilerplateMarker = src.BoilerplateMarker
		}
		return e
	}
	e := trafilatura.NewExtractor()
	if src.BoilerplateMarker != "" {
		e.BoilerplateMarker = src.BoilerplateMarker
	}
	if src.Extractor == docvec.ExtractorFramework {
		return &goquery.FrameworkExtractor{Fallback: e, BoilerplateMarker: e.BoilerplateMarker}
	}
	return e
}

// newLinkSelector follows the source's link selector. Framework sources
// without one follow their framework's navigation.
func newLinkSelector(src docvec.Source) docvec.LinkSelector {
	if src.LinkSelector == "" && src.Extractor == docvec.ExtractorFramework {
		return &goquery.FrameworkLinkSelector{}
	}
	return &goquery.LinkSelector{Selector: src.LinkSelector}
}

// newLogger returns a tint handler on w. Color is disabled when w is not a
// terminal.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
	}))
}

// serveMetrics exposes reg on addr until the returned function is called.
func serveMetrics(addr string, reg *prom.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", dvprom.Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "docvec.db"
	}
	dir := filepath.Join(home, ".docvec")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docvec.db")
}
