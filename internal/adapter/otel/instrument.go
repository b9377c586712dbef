package otel

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/pagesmith/pagesmith/internal/domain"
	"github.com/pagesmith/pagesmith/internal/domain/content"
	"github.com/pagesmith/pagesmith/internal/port/cache"
	"github.com/pagesmith/pagesmith/internal/port/contentstore"
)

// instrumentedStore decorates a content store with fetch metrics and spans.
type instrumentedStore struct {
	inner contentstore.Store
	m     *Metrics
}

// InstrumentStore wraps a content store so every query records a fetch
// counter, a duration sample, and a trace span. A nil Metrics returns the
// store unwrapped.
func InstrumentStore(inner contentstore.Store, m *Metrics) contentstore.Store {
	if m == nil {
		return inner
	}
	return &instrumentedStore{inner: inner, m: m}
}

func (s *instrumentedStore) Dataset() string { return s.inner.Dataset() }

// observe records one query. A miss is a successful query that matched no
// document; only transport and upstream errors count as failures.
func (s *instrumentedStore) observe(ctx context.Context, query string, start time.Time, err error) {
	attrs := metric.WithAttributes(
		attribute.String("tenant.dataset", s.inner.Dataset()),
		attribute.String("content.query", query),
	)
	s.m.ContentFetches.Add(ctx, 1, attrs)
	s.m.FetchDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.m.FetchFailures.Add(ctx, 1, attrs)
	}
}

func (s *instrumentedStore) GetServiceLocation(ctx context.Context, serviceSlug, locationSlug string) (*content.ServiceLocation, error) {
	ctx, span := StartFetchSpan(ctx, s.inner.Dataset(), "serviceLocation")
	defer span.End()
	start := time.Now()
	sl, err := s.inner.GetServiceLocation(ctx, serviceSlug, locationSlug)
	s.observe(ctx, "serviceLocation", start, err)
	return sl, err
}

func (s *instrumentedStore) GetServiceBySlug(ctx context.Context, slug string) (*content.Service, error) {
	ctx, span := StartFetchSpan(ctx, s.inner.Dataset(), "service")
	defer span.End()
	start := time.Now()
	svc, err := s.inner.GetServiceBySlug(ctx, slug)
	s.observe(ctx, "service", start, err)
	return svc, err
}

func (s *instrumentedStore) GetLocationBySlug(ctx context.Context, slug string) (*content.Location, error) {
	ctx, span := StartFetchSpan(ctx, s.inner.Dataset(), "location")
	defer span.End()
	start := time.Now()
	loc, err := s.inner.GetLocationBySlug(ctx, slug)
	s.observe(ctx, "location", start, err)
	return loc, err
}

func (s *instrumentedStore) ListServices(ctx context.Context) ([]content.Service, error) {
	ctx, span := StartFetchSpan(ctx, s.inner.Dataset(), "services")
	defer span.End()
	start := time.Now()
	list, err := s.inner.ListServices(ctx)
	s.observe(ctx, "services", start, err)
	return list, err
}

func (s *instrumentedStore) ListLocations(ctx context.Context) ([]content.Location, error) {
	ctx, span := StartFetchSpan(ctx, s.inner.Dataset(), "locations")
	defer span.End()
	start := time.Now()
	list, err := s.inner.ListLocations(ctx)
	s.observe(ctx, "locations", start, err)
	return list, err
}

func (s *instrumentedStore) ListServiceLocationSlugs(ctx context.Context) ([]contentstore.ServiceLocationSlugs, error) {
	ctx, span := StartFetchSpan(ctx, s.inner.Dataset(), "serviceLocationSlugs")
	defer span.End()
	start := time.Now()
	list, err := s.inner.ListServiceLocationSlugs(ctx)
	s.observe(ctx, "serviceLocationSlugs", start, err)
	return list, err
}

func (s *instrumentedStore) GetSiteSettings(ctx context.Context) (*content.SiteSettings, error) {
	ctx, span := StartFetchSpan(ctx, s.inner.Dataset(), "siteSettings")
	defer span.End()
	start := time.Now()
	settings, err := s.inner.GetSiteSettings(ctx)
	s.observe(ctx, "siteSettings", start, err)
	return settings, err
}

// instrumentedCache decorates a cache with hit/miss counters.
type instrumentedCache struct {
	inner cache.Cache
	m     *Metrics
}

// InstrumentCache wraps a cache so lookups record hit/miss counters. A nil
// Metrics returns the cache unwrapped.
func InstrumentCache(inner cache.Cache, m *Metrics) cache.Cache {
	if m == nil {
		return inner
	}
	return &instrumentedCache{inner: inner, m: m}
}

func (c *instrumentedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err == nil && ok {
		c.m.CacheHits.Add(ctx, 1)
	} else {
		c.m.CacheMisses.Add(ctx, 1)
	}
	return data, ok, err
}

func (c *instrumentedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, value, ttl)
}

func (c *instrumentedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}
