// Package prometheus exposes crawl and indexing metrics through the
// Prometheus client library.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/docvec"
	"github.com/fwojciec/docvec/crawl"
	"github.com/fwojciec/docvec/ingest"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Page status label values.
const (
	StatusSaved   = "saved"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Metrics holds the collectors registered by NewMetrics.
type Metrics struct {
	pages          *prom.CounterVec
	issued         *prom.GaugeVec
	upserts        *prom.CounterVec
	upsertDuration prom.Histogram
	batches        prom.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// Passing prom.DefaultRegisterer exposes them on the default handler.
func NewMetrics(reg prom.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		pages: f.NewCounterVec(prom.CounterOpts{
			Name: "docvec_pages_total",
			Help: "Crawled pages by source and outcome.",
		}, []string{"source", "status"}),
		issued: f.NewGaugeVec(prom.GaugeOpts{
			Name: "docvec_crawl_issued",
			Help: "URLs handed to fetch workers in the current crawl.",
		}, []string{"source"}),
		upserts: f.NewCounterVec(prom.CounterOpts{
			Name: "docvec_upserts_total",
			Help: "Index upserts by outcome.",
		}, []string{"status"}),
		upsertDuration: f.NewHistogram(prom.HistogramOpts{
			Name:    "docvec_upsert_duration_seconds",
			Help:    "Latency of index upserts.",
			Buckets: prom.DefBuckets,
		}),
		batches: f.NewCounter(prom.CounterOpts{
			Name: "docvec_batches_total",
			Help: "Settled indexing batches.",
		}),
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prom.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// CrawlProgress returns a progress callback that records page outcomes for
// source and then forwards the event to next, which may be nil.
func (m *Metrics) CrawlProgress(source string, next crawl.ProgressFunc) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressCompleted:
			m.pages.WithLabelValues(source, StatusSaved).Inc()
		case crawl.ProgressSkipped:
			m.pages.WithLabelValues(source, StatusSkipped).Inc()
		case crawl.ProgressFailed:
			m.pages.WithLabelValues(source, StatusFailed).Inc()
		}
		m.issued.WithLabelValues(source).Set(float64(event.Issued))
		if next != nil {
			next(event)
		}
	}
}

// BatchProgress returns a batch callback that counts settled batches and
// then forwards the event to next, which may be nil.
func (m *Metrics) BatchProgress(next ingest.BatchProgressFunc) ingest.BatchProgressFunc {
	return func(event ingest.BatchEvent) {
		m.batches.Inc()
		if next != nil {
			next(event)
		}
	}
}

// Ensure Index implements docvec.Index.
var _ docvec.Index = (*Index)(nil)

// Index wraps an Index with upsert counters and latency.
type Index struct {
	next    docvec.Index
	metrics *Metrics
}

// NewIndex creates a new Index.
func NewIndex(next docvec.Index, metrics *Metrics) *Index {
	return &Index{next: next, metrics: metrics}
}

// Upsert delegates to the wrapped index and records the outcome.
func (i *Index) Upsert(ctx context.Context, id, text string, metadata map[string]any) error {
	begin := time.Now()
	err := i.next.Upsert(ctx, id, text, metadata)
	i.metrics.upsertDuration.Observe(time.Since(begin).Seconds())
	status := "ok"
	if err != nil {
		status = "error"
	}
	i.metrics.upserts.WithLabelValues(status).Inc()
	return err
}

// Query delegates to the wrapped index.
func (i *Index) Query(ctx context.Context, text string, topK int) ([]docvec.Hit, error) {
	return i.next.Query(ctx, text, topK)
}
