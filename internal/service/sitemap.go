package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pagesmith/pagesmith/internal/domain/content"
	"github.com/pagesmith/pagesmith/internal/port/contentstore"
)

// SitemapEntry is one URL in a tenant's sitemap. Loc is a site-relative
// path; the handler prefixes the tenant's canonical base URL.
type SitemapEntry struct {
	Loc        string
	LastMod    time.Time
	ChangeFreq string
	Priority   float64
}

// Sitemap priorities by page class. Combination pages are the primary
// landing pages, so they outrank the standalone documents they derive
// from.
const (
	priorityHome        = 1.0
	priorityStandalone  = 0.8
	priorityCombination = 0.9
	changeFreqWeekly    = "weekly"
)

// SitemapService assembles sitemap entries from a tenant's content.
type SitemapService struct {
	clients *ClientRegistry
	log     *slog.Logger
}

// NewSitemapService creates a sitemap service.
func NewSitemapService(clients *ClientRegistry, log *slog.Logger) *SitemapService {
	if log == nil {
		log = slog.Default()
	}
	return &SitemapService{clients: clients, log: log}
}

// Entries lists every indexable page for the request's tenant: the home
// page, standalone service and location pages, and every combination
// whose references resolve. Documents marked noindex are suppressed; a
// combination is suppressed by its own noindex flag, which falls back
// to its service's when unset.
func (s *SitemapService) Entries(ctx context.Context) ([]SitemapEntry, error) {
	store, err := s.clients.ForRequest(ctx)
	if err != nil {
		return nil, err
	}
	return s.entries(ctx, store)
}

func (s *SitemapService) entries(ctx context.Context, store contentstore.Store) ([]SitemapEntry, error) {
	var (
		services []content.Service
		locs     []content.Location
		pairs    []contentstore.ServiceLocationSlugs
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		services, err = store.ListServices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		locs, err = store.ListLocations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		pairs, err = store.ListServiceLocationSlugs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	svcBySlug := make(map[string]content.Service, len(services))
	locBySlug := make(map[string]content.Location, len(locs))

	entries := []SitemapEntry{{
		Loc:        "/",
		LastMod:    time.Now().UTC(),
		ChangeFreq: changeFreqWeekly,
		Priority:   priorityHome,
	}}

	for _, svc := range services {
		svcBySlug[svc.Slug] = svc
		if svc.SEO.Noindex {
			continue
		}
		entries = append(entries, SitemapEntry{
			Loc:        content.ServicePath(svc.Slug),
			LastMod:    svc.UpdatedAt,
			ChangeFreq: changeFreqWeekly,
			Priority:   priorityStandalone,
		})
	}

	for _, loc := range locs {
		locBySlug[loc.Slug] = loc
		if loc.SEO.Noindex {
			continue
		}
		entries = append(entries, SitemapEntry{
			Loc:        content.LocationPath(loc.Slug),
			LastMod:    loc.UpdatedAt,
			ChangeFreq: changeFreqWeekly,
			Priority:   priorityStandalone,
		})
	}

	for _, pair := range pairs {
		svc, haveSvc := svcBySlug[pair.ServiceSlug]
		loc, haveLoc := locBySlug[pair.LocationSlug]
		if !haveSvc || !haveLoc {
			s.log.Warn("sitemap skipping combination with dangling slug",
				"service", pair.ServiceSlug, "location", pair.LocationSlug)
			continue
		}
		if pair.Noindex {
			continue
		}
		lastMod := svc.UpdatedAt
		if loc.UpdatedAt.After(lastMod) {
			lastMod = loc.UpdatedAt
		}
		entries = append(entries, SitemapEntry{
			Loc:        content.CombinationPath(pair.ServiceSlug, pair.LocationSlug),
			LastMod:    lastMod,
			ChangeFreq: changeFreqWeekly,
			Priority:   priorityCombination,
		})
	}

	return entries, nil
}
