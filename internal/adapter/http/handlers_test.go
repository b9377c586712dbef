package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	httpadapter "github.com/pagesmith/pagesmith/internal/adapter/http"
	"github.com/pagesmith/pagesmith/internal/adapter/ws"
	"github.com/pagesmith/pagesmith/internal/config"
	"github.com/pagesmith/pagesmith/internal/domain"
	"github.com/pagesmith/pagesmith/internal/domain/content"
	"github.com/pagesmith/pagesmith/internal/domain/tenant"
	"github.com/pagesmith/pagesmith/internal/middleware"
	"github.com/pagesmith/pagesmith/internal/port/contentstore"
	"github.com/pagesmith/pagesmith/internal/render"
	"github.com/pagesmith/pagesmith/internal/service"
)

const (
	testAdminToken    = "test-admin-token"
	testWebhookSecret = "test-webhook-secret"
)

// stubStore serves a fixed production dataset for acme.test.
type stubStore struct {
	dataset string
}

func (s *stubStore) Dataset() string { return s.dataset }

func (s *stubStore) GetServiceLocation(_ context.Context, serviceSlug, locationSlug string) (*content.ServiceLocation, error) {
	if serviceSlug != "plumbing" || locationSlug != "austin" {
		return nil, domain.ErrNotFound
	}
	svc := testServiceDoc()
	loc := testLocationDoc()
	return &content.ServiceLocation{
		ID:       "sl1",
		Service:  &svc,
		Location: &loc,
		Headline: "Plumbing Experts in Austin",
	}, nil
}

func (s *stubStore) GetServiceBySlug(_ context.Context, slug string) (*content.Service, error) {
	if slug != "plumbing" {
		return nil, domain.ErrNotFound
	}
	svc := testServiceDoc()
	return &svc, nil
}

func (s *stubStore) GetLocationBySlug(_ context.Context, slug string) (*content.Location, error) {
	if slug != "austin" {
		return nil, domain.ErrNotFound
	}
	loc := testLocationDoc()
	return &loc, nil
}

func (s *stubStore) ListServices(context.Context) ([]content.Service, error) {
	return []content.Service{testServiceDoc()}, nil
}

func (s *stubStore) ListLocations(context.Context) ([]content.Location, error) {
	return []content.Location{testLocationDoc()}, nil
}

func (s *stubStore) ListServiceLocationSlugs(context.Context) ([]contentstore.ServiceLocationSlugs, error) {
	return []contentstore.ServiceLocationSlugs{{ServiceSlug: "plumbing", LocationSlug: "austin"}}, nil
}

func (s *stubStore) GetSiteSettings(context.Context) (*content.SiteSettings, error) {
	return &content.SiteSettings{
		BusinessName: "Acme Plumbing",
		PhoneNumber:  "555-0100",
		Email:        "hello@acme.test",
	}, nil
}

func testServiceDoc() content.Service {
	return content.Service{
		ID:        "svc1",
		Name:      "Plumbing",
		Slug:      "plumbing",
		Headline:  "Reliable Plumbing",
		IntroCopy: "Pipes fixed fast.",
		UpdatedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		SEO:       content.SEO{MetaDescription: "Plumbing services."},
	}
}

func testLocationDoc() content.Location {
	return content.Location{
		ID:        "loc1",
		Name:      "Austin",
		Slug:      "austin",
		UpdatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tenancy := config.Tenancy{
		BaseDomain: "acme.test",
		SiteURL:    "https://acme.test",
	}
	store := config.ContentStore{DefaultDataset: "production", ProjectID: "p1"}
	resolver := tenant.NewResolver(tenancy, store)

	clients := service.NewClientRegistry(func(dataset string) contentstore.Store {
		return &stubStore{dataset: dataset}
	})
	pages := service.NewPageService(clients, nil, time.Minute, time.Minute, 5*time.Second, log)
	sitemap := service.NewSitemapService(clients, log)
	hub := ws.NewHub()
	reval := service.NewRevalidateService(nil, pages, hub, log)
	admin := service.NewAdminService([]config.Tenant{
		{Domain: "acme.test", Dataset: "production"},
	})
	sections := render.NewBuiltinRegistry(log)

	h := httpadapter.NewHandlers(pages, sitemap, reval, admin, sections, nil, log)

	r := chi.NewRouter()
	r.Use(middleware.Tenant(resolver, log))
	httpadapter.MountRoutes(r, h, hub, config.Server{
		WebhookSecret: testWebhookSecret,
		AdminToken:    testAdminToken,
	})
	return r
}

func doRequest(t *testing.T, router chi.Router, method, host, target string, body io.Reader, mod func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.Host = host
	if mod != nil {
		mod(req)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthzBypassesTenantResolution(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "nobody.example", "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUnknownDomainIs404(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "nobody.example", "/", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown domain, got %d", rec.Code)
	}
}

func TestCombinationPage(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "acme.test", "/plumbing/in/austin", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Plumbing Experts in Austin") {
		t.Error("expected combination headline override in page body")
	}
	if !strings.Contains(body, `rel="canonical" href="https://acme.test/plumbing/in/austin"`) {
		t.Error("expected absolute canonical link")
	}
	if !strings.Contains(body, `application/ld+json`) {
		t.Error("expected embedded JSON-LD script")
	}
	if !strings.Contains(body, "Acme Plumbing") {
		t.Error("expected business name from site settings")
	}
	if got := rec.Header().Get("X-Dataset"); got != "production" {
		t.Errorf("expected X-Dataset header production, got %q", got)
	}
}

func TestCombinationPageNotFound(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "acme.test", "/roofing/in/dallas", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown combination, got %d", rec.Code)
	}
}

func TestServicePage(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "acme.test", "/services/plumbing", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Reliable Plumbing") {
		t.Error("expected service headline in page body")
	}
}

func TestLocationPage(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "acme.test", "/locations/austin", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Austin") {
		t.Error("expected location name in page body")
	}
}

func TestHomeListsServicesAndLocations(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "acme.test", "/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `href="/services/plumbing"`) {
		t.Error("expected service link on home page")
	}
	if !strings.Contains(body, `href="/locations/austin"`) {
		t.Error("expected location link on home page")
	}
}

func TestRobots(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "acme.test", "/robots.txt", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sitemap: https://acme.test/sitemap.xml") {
		t.Errorf("expected tenant sitemap line, got:\n%s", rec.Body.String())
	}
}

func TestSitemap(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "acme.test", "/sitemap.xml", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Error("expected sitemap namespace")
	}
	if !strings.Contains(body, "<loc>https://acme.test/</loc>") {
		t.Error("expected absolute home URL")
	}
	if !strings.Contains(body, "<loc>https://acme.test/plumbing/in/austin</loc>") {
		t.Error("expected absolute combination URL")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("expected XML content type, got %q", ct)
	}
}

func TestAdminRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "acme.test", "/api/v1/admin/clients", nil, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without token, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "acme.test", "/api/v1/admin/clients", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+testAdminToken)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
	var clients []service.ClientRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &clients); err != nil {
		t.Fatalf("decode client list: %v", err)
	}
	if len(clients) != 1 || clients[0].Domain != "acme.test" {
		t.Errorf("expected seeded acme.test client, got %+v", clients)
	}
}

func TestAdminCreateAndDelete(t *testing.T) {
	router := newTestRouter(t)
	auth := func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+testAdminToken)
	}

	payload := `{"domain":"widgets.test","dataset":"widgets"}`
	rec := doRequest(t, router, http.MethodPost, "acme.test", "/api/v1/admin/clients",
		strings.NewReader(payload), auth)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created service.ClientRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created client: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated client ID")
	}

	rec = doRequest(t, router, http.MethodDelete, "acme.test", "/api/v1/admin/clients/"+created.ID, nil, auth)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = doRequest(t, router, http.MethodGet, "acme.test", "/api/v1/admin/clients/"+created.ID, nil, auth)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestAdminCreateMissingDomain(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodPost, "acme.test", "/api/v1/admin/clients",
		strings.NewReader(`{"dataset":"widgets"}`), func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+testAdminToken)
		})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func signWebhook(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookValidSignature(t *testing.T) {
	router := newTestRouter(t)
	body := []byte(`{"dataset":"production","paths":["/plumbing/in/austin"]}`)
	rec := doRequest(t, router, http.MethodPost, "acme.test", "/api/v1/webhooks/content",
		bytes.NewReader(body), func(r *http.Request) {
			r.Header.Set("X-Sanity-Signature", signWebhook(body))
		})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWebhookInvalidSignature(t *testing.T) {
	router := newTestRouter(t)
	body := []byte(`{"dataset":"production"}`)
	rec := doRequest(t, router, http.MethodPost, "acme.test", "/api/v1/webhooks/content",
		bytes.NewReader(body), func(r *http.Request) {
			r.Header.Set("X-Sanity-Signature", "sha256=deadbeef")
		})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestWebhookMissingDataset(t *testing.T) {
	router := newTestRouter(t)
	body := []byte(`{"paths":["/x"]}`)
	rec := doRequest(t, router, http.MethodPost, "acme.test", "/api/v1/webhooks/content",
		bytes.NewReader(body), func(r *http.Request) {
			r.Header.Set("X-Sanity-Signature", signWebhook(body))
		})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
