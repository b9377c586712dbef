package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "pagesmith"

// Metrics holds all pagesmith metric instruments.
type Metrics struct {
	PagesRendered   metric.Int64Counter
	PagesNotFound   metric.Int64Counter
	ContentFetches  metric.Int64Counter
	FetchFailures   metric.Int64Counter
	SectionsSkipped metric.Int64Counter
	CacheHits       metric.Int64Counter
	CacheMisses     metric.Int64Counter
	FetchDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.PagesRendered, err = meter.Int64Counter("pagesmith.pages.rendered",
		metric.WithDescription("Number of pages rendered"))
	if err != nil {
		return nil, err
	}

	m.PagesNotFound, err = meter.Int64Counter("pagesmith.pages.not_found",
		metric.WithDescription("Number of page requests that resolved to no content"))
	if err != nil {
		return nil, err
	}

	m.ContentFetches, err = meter.Int64Counter("pagesmith.content.fetches",
		metric.WithDescription("Number of content store queries"))
	if err != nil {
		return nil, err
	}

	m.FetchFailures, err = meter.Int64Counter("pagesmith.content.fetch_failures",
		metric.WithDescription("Number of failed content store queries"))
	if err != nil {
		return nil, err
	}

	m.SectionsSkipped, err = meter.Int64Counter("pagesmith.sections.skipped",
		metric.WithDescription("Number of sections skipped for unknown type or variant"))
	if err != nil {
		return nil, err
	}

	m.CacheHits, err = meter.Int64Counter("pagesmith.cache.hits",
		metric.WithDescription("Number of page cache hits"))
	if err != nil {
		return nil, err
	}

	m.CacheMisses, err = meter.Int64Counter("pagesmith.cache.misses",
		metric.WithDescription("Number of page cache misses"))
	if err != nil {
		return nil, err
	}

	m.FetchDuration, err = meter.Float64Histogram("pagesmith.content.fetch_duration_seconds",
		metric.WithDescription("Content store query duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
