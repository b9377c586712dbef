package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pagesmith/pagesmith/internal/config"
	"github.com/pagesmith/pagesmith/internal/domain/tenant"
	"github.com/pagesmith/pagesmith/internal/middleware"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testResolver() *tenant.Resolver {
	enabled := true
	return tenant.NewResolver(
		config.Tenancy{
			BaseDomain: "buddsplumbing.com",
			Tenants: []config.Tenant{
				{Domain: "acmedrains.com", Dataset: "acme-production", ClientID: "acme", Enabled: &enabled},
				{Domain: "www.canonical.com", Dataset: "canon-prod", SiteURL: "https://www.canonical.com", Enabled: &enabled},
			},
		},
		config.ContentStore{ProjectID: "p1", DefaultDataset: "production"},
	)
}

func tenantHandler(t *testing.T) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tc, ok := tenant.FromContext(r.Context())
		if ok {
			w.Header().Set("X-Test-Dataset", tc.Dataset)
		}
		w.WriteHeader(http.StatusOK)
	})
	return middleware.Tenant(testResolver(), discardLogger())(inner)
}

func TestTenantResolvesAndStampsHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://acmedrains.com/drain-cleaning/in/toronto", http.NoBody)
	rec := httptest.NewRecorder()
	tenantHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Dataset"); got != "acme-production" {
		t.Errorf("X-Dataset = %q", got)
	}
	if got := rec.Header().Get("X-Client-Id"); got != "acme" {
		t.Errorf("X-Client-Id = %q", got)
	}
	if got := rec.Header().Get("X-Domain"); got != "acmedrains.com" {
		t.Errorf("X-Domain = %q", got)
	}
	if got := rec.Header().Get("X-Test-Dataset"); got != "acme-production" {
		t.Errorf("context dataset = %q", got)
	}
}

func TestTenantPrefersForwardedHost(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://internal-lb:8080/", http.NoBody)
	req.Header.Set("X-Forwarded-Host", "acmedrains.com")
	rec := httptest.NewRecorder()
	tenantHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Dataset"); got != "acme-production" {
		t.Errorf("X-Dataset = %q", got)
	}
}

func TestTenantUnknownHostIs404(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://evil.example.net/", http.NoBody)
	rec := httptest.NewRecorder()
	tenantHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestTenantRedirectsToCanonicalHost(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://canonical.com/plumbing/in/austin?ref=ad", http.NoBody)
	rec := httptest.NewRecorder()
	tenantHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", rec.Code)
	}
	want := "https://www.canonical.com/plumbing/in/austin?ref=ad"
	if got := rec.Header().Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
}

func TestTenantExemptPathsSkipResolution(t *testing.T) {
	for _, path := range []string{"/healthz", "/static/app.css", "/favicon.ico", "/api/v1/admin/clients"} {
		req := httptest.NewRequest(http.MethodGet, "http://evil.example.net"+path, http.NoBody)
		rec := httptest.NewRecorder()
		tenantHandler(t).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("path %s: status = %d, want 200", path, rec.Code)
		}
		if got := rec.Header().Get("X-Dataset"); got != "" {
			t.Errorf("path %s: unexpected X-Dataset %q", path, got)
		}
	}
}
