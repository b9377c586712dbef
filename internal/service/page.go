package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pagesmith/pagesmith/internal/domain"
	"github.com/pagesmith/pagesmith/internal/domain/content"
	"github.com/pagesmith/pagesmith/internal/port/cache"
	"github.com/pagesmith/pagesmith/internal/port/contentstore"
)

// PageService builds page models from tenant-scoped content stores,
// with an optional cache in front of the store.
//
// Cache keys carry a per-dataset generation counter. Invalidating a
// whole dataset bumps the counter, which orphans every cached entry at
// once; orphans age out by TTL.
type PageService struct {
	clients     *ClientRegistry
	cache       cache.Cache
	pageTTL     time.Duration
	settingsTTL time.Duration
	timeout     time.Duration
	log         *slog.Logger

	mu   sync.Mutex
	gens map[string]uint64
}

// NewPageService creates a page service. cache may be nil to disable
// caching; timeout bounds each resolution including store round trips.
func NewPageService(clients *ClientRegistry, c cache.Cache, pageTTL, settingsTTL, timeout time.Duration, log *slog.Logger) *PageService {
	if log == nil {
		log = slog.Default()
	}
	return &PageService{
		clients:     clients,
		cache:       c,
		pageTTL:     pageTTL,
		settingsTTL: settingsTTL,
		timeout:     timeout,
		log:         log,
		gens:        make(map[string]uint64),
	}
}

// ResolveCombination returns the page model for a service-in-location
// page. A combination document wins when one exists; otherwise the page
// is synthesized from the standalone service and location documents.
// Returns domain.ErrNotFound when either half cannot be resolved.
func (s *PageService) ResolveCombination(ctx context.Context, serviceSlug, locationSlug string) (content.PageModel, error) {
	store, err := s.clients.ForRequest(ctx)
	if err != nil {
		return content.PageModel{}, err
	}
	return s.resolveCombination(ctx, store, serviceSlug, locationSlug)
}

func (s *PageService) resolveCombination(ctx context.Context, store contentstore.Store, serviceSlug, locationSlug string) (content.PageModel, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := s.key(store.Dataset(), "page", content.CombinationPath(serviceSlug, locationSlug))
	var page content.PageModel
	if s.cacheGet(ctx, key, &page) {
		return page, nil
	}

	sl, err := store.GetServiceLocation(ctx, serviceSlug, locationSlug)
	switch {
	case err == nil:
		if sl.Service == nil || sl.Location == nil {
			// A combination with a dangling reference is untrustworthy.
			// Discard it entirely, overrides included, and build from the
			// standalone documents.
			s.log.Warn("combination has broken reference, falling back to direct lookups",
				"service", serviceSlug, "location", locationSlug)
			svc, loc, derr := s.fetchDirect(ctx, store, serviceSlug, locationSlug)
			if derr != nil {
				return content.PageModel{}, derr
			}
			page = content.BuildPageDirect(svc, loc)
			break
		}
		page = content.BuildPage(sl)

	case errors.Is(err, domain.ErrNotFound):
		svc, loc, derr := s.fetchDirect(ctx, store, serviceSlug, locationSlug)
		if derr != nil {
			return content.PageModel{}, derr
		}
		page = content.BuildPageDirect(svc, loc)

	default:
		return content.PageModel{}, err
	}

	s.cacheSet(ctx, key, page, s.pageTTL)
	return page, nil
}

// fetchDirect loads the service and location documents concurrently.
func (s *PageService) fetchDirect(ctx context.Context, store contentstore.Store, serviceSlug, locationSlug string) (*content.Service, *content.Location, error) {
	var (
		svc *content.Service
		loc *content.Location
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		svc, err = store.GetServiceBySlug(gctx, serviceSlug)
		return err
	})
	g.Go(func() error {
		var err error
		loc, err = store.GetLocationBySlug(gctx, locationSlug)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return svc, loc, nil
}

// CombinationWithSettings resolves the page and the tenant's site
// settings concurrently. A missing settings document degrades to nil
// settings rather than failing the page.
func (s *PageService) CombinationWithSettings(ctx context.Context, serviceSlug, locationSlug string) (content.PageModel, *content.SiteSettings, error) {
	store, err := s.clients.ForRequest(ctx)
	if err != nil {
		return content.PageModel{}, nil, err
	}

	var (
		page     content.PageModel
		settings *content.SiteSettings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.resolveCombination(gctx, store, serviceSlug, locationSlug)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = s.settings(gctx, store)
		if errors.Is(err, domain.ErrNotFound) {
			settings = nil
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return content.PageModel{}, nil, err
	}
	return page, settings, nil
}

// ServiceBySlug returns one service document for the request's tenant.
func (s *PageService) ServiceBySlug(ctx context.Context, slug string) (*content.Service, error) {
	store, err := s.clients.ForRequest(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return store.GetServiceBySlug(ctx, slug)
}

// LocationBySlug returns one location document for the request's tenant.
func (s *PageService) LocationBySlug(ctx context.Context, slug string) (*content.Location, error) {
	store, err := s.clients.ForRequest(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return store.GetLocationBySlug(ctx, slug)
}

// ListServices returns all services for the request's tenant.
func (s *PageService) ListServices(ctx context.Context) ([]content.Service, error) {
	store, err := s.clients.ForRequest(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return store.ListServices(ctx)
}

// ListLocations returns all locations for the request's tenant.
func (s *PageService) ListLocations(ctx context.Context) ([]content.Location, error) {
	store, err := s.clients.ForRequest(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return store.ListLocations(ctx)
}

// Settings returns the tenant's site settings, cached under the
// settings TTL.
func (s *PageService) Settings(ctx context.Context) (*content.SiteSettings, error) {
	store, err := s.clients.ForRequest(ctx)
	if err != nil {
		return nil, err
	}
	return s.settings(ctx, store)
}

func (s *PageService) settings(ctx context.Context, store contentstore.Store) (*content.SiteSettings, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := s.key(store.Dataset(), "settings")
	var settings content.SiteSettings
	if s.cacheGet(ctx, key, &settings) {
		return &settings, nil
	}

	got, err := store.GetSiteSettings(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, got, s.settingsTTL)
	return got, nil
}

// Invalidate orphans every cached entry for a dataset.
func (s *PageService) Invalidate(dataset string) {
	s.mu.Lock()
	s.gens[dataset]++
	s.mu.Unlock()
	s.log.Info("cache invalidated", "dataset", dataset)
}

// InvalidatePaths drops specific cached pages plus the settings entry.
// An empty path list falls back to whole-dataset invalidation.
func (s *PageService) InvalidatePaths(ctx context.Context, dataset string, paths []string) {
	if len(paths) == 0 {
		s.Invalidate(dataset)
		return
	}
	if s.cache == nil {
		return
	}
	for _, p := range paths {
		if err := s.cache.Delete(ctx, s.key(dataset, "page", p)); err != nil {
			s.log.Warn("cache delete failed", "dataset", dataset, "path", p, "error", err)
		}
	}
	if err := s.cache.Delete(ctx, s.key(dataset, "settings")); err != nil {
		s.log.Warn("cache delete failed", "dataset", dataset, "key", "settings", "error", err)
	}
}

func (s *PageService) key(dataset string, parts ...string) string {
	s.mu.Lock()
	gen := s.gens[dataset]
	s.mu.Unlock()
	return cache.Key(dataset, append([]string{"g" + strconv.FormatUint(gen, 10)}, parts...)...)
}

func (s *PageService) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("cache get failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.log.Warn("cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (s *PageService) cacheSet(ctx context.Context, key string, v any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.log.Warn("cache set failed", "key", key, "error", err)
	}
}

func (s *PageService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
