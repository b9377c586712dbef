package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	pshttp "github.com/pagesmith/pagesmith/internal/adapter/http"
	psnats "github.com/pagesmith/pagesmith/internal/adapter/nats"
	"github.com/pagesmith/pagesmith/internal/adapter/natskv"
	"github.com/pagesmith/pagesmith/internal/adapter/otel"
	"github.com/pagesmith/pagesmith/internal/adapter/ristretto"
	"github.com/pagesmith/pagesmith/internal/adapter/sanity"
	"github.com/pagesmith/pagesmith/internal/adapter/tiered"
	"github.com/pagesmith/pagesmith/internal/adapter/ws"
	"github.com/pagesmith/pagesmith/internal/config"
	"github.com/pagesmith/pagesmith/internal/domain/tenant"
	"github.com/pagesmith/pagesmith/internal/logger"
	"github.com/pagesmith/pagesmith/internal/middleware"
	"github.com/pagesmith/pagesmith/internal/port/cache"
	"github.com/pagesmith/pagesmith/internal/port/contentstore"
	"github.com/pagesmith/pagesmith/internal/port/messagequeue"
	"github.com/pagesmith/pagesmith/internal/render"
	"github.com/pagesmith/pagesmith/internal/resilience"
	"github.com/pagesmith/pagesmith/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	log.Info("config loaded",
		"port", cfg.Server.Port,
		"env", cfg.Server.Env,
		"base_domain", cfg.Tenancy.BaseDomain,
		"tenants", len(cfg.Tenancy.Tenants),
		"nats_enabled", cfg.NATS.Enabled,
	)

	ctx := context.Background()

	resolver := tenant.NewResolver(cfg.Tenancy, cfg.ContentStore)

	// --- Infrastructure ---

	// The content store is one upstream; a single breaker guards it for
	// all datasets.
	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)

	l1, err := ristretto.New(cfg.Cache.L1MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("l1 cache: %w", err)
	}
	var pageCache cache.Cache = l1

	var queue *psnats.Queue
	if cfg.NATS.Enabled {
		queue, err = psnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = queue.Close() }()

		if cfg.Cache.L2Bucket != "" {
			l2, err := natskv.Ensure(ctx, queue.JetStream(), cfg.Cache.L2Bucket, cfg.Cache.PageTTL)
			if err != nil {
				return fmt.Errorf("l2 cache: %w", err)
			}
			pageCache = tiered.New(l1, l2, cfg.Cache.PageTTL)
			log.Info("tiered cache enabled", "bucket", cfg.Cache.L2Bucket)
		}
	}

	shutdownTracer := otel.InitTracer(cfg.Logging.Service)
	defer func() { _ = shutdownTracer(ctx) }()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Services ---

	clients := service.NewClientRegistry(func(dataset string) contentstore.Store {
		c := sanity.NewClient(sanity.Config{
			BaseURL:    cfg.ContentStore.BaseURL,
			ProjectID:  cfg.ContentStore.ProjectID,
			Dataset:    dataset,
			APIVersion: cfg.ContentStore.APIVersion,
			UseCDN:     cfg.ContentStore.UseCDN,
			Token:      cfg.ContentStore.Token,
			Timeout:    cfg.ContentStore.FetchTimeout,
		})
		c.SetBreaker(breaker)
		return otel.InstrumentStore(sanity.NewStore(c), metrics)
	})

	pages := service.NewPageService(clients, otel.InstrumentCache(pageCache, metrics),
		cfg.Cache.PageTTL, cfg.Cache.SettingsTTL, cfg.ContentStore.FetchTimeout, log)
	sitemap := service.NewSitemapService(clients, log)
	hub := ws.NewHub()
	admin := service.NewAdminService(cfg.Tenancy.Tenants)

	// Avoid handing a typed-nil *Queue to the interface parameter.
	var mq messagequeue.Queue
	if queue != nil {
		mq = queue
	}
	reval := service.NewRevalidateService(mq, pages, hub, log)
	stopReval, err := reval.Start(ctx)
	if err != nil {
		return fmt.Errorf("revalidation subscriber: %w", err)
	}
	defer stopReval()

	sections := render.NewBuiltinRegistry(log)

	// --- HTTP ---

	handlers := pshttp.NewHandlers(pages, sitemap, reval, admin, sections, metrics, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(middleware.SecurityHeaders(cfg.Server.Env))
	r.Use(middleware.CacheControl)
	r.Use(middleware.Tenant(resolver, log))

	pshttp.MountRoutes(r, handlers, hub, cfg.Server)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("starting server", "addr", addr, "domains", resolver.Domains())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
		}
	}()

	<-done
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.CloseAll()
	return srv.Shutdown(shutdownCtx)
}
