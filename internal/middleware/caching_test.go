package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pagesmith/pagesmith/internal/middleware"
)

func TestCacheControlByPathClass(t *testing.T) {
	handler := middleware.CacheControl(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		path string
		want string
	}{
		{"/static/logo.png", "public, max-age=31536000, immutable"},
		{"/static/app.bundle", "public, max-age=31536000, immutable"},
		{"/images/logo.png", "public, max-age=31536000, immutable"},
		{"/fonts/Brand.WOFF2", "public, max-age=31536000, immutable"},
		{"/favicon.ico", "public, max-age=31536000, immutable"},
		{"/assets/app.js", "public, max-age=3600, stale-while-revalidate=86400"},
		{"/assets/site.css", "public, max-age=3600, stale-while-revalidate=86400"},
		{"/api/v1/admin/clients", "no-store, must-revalidate"},
		{"/plumbing/in/austin", "public, max-age=60, stale-while-revalidate=3600"},
		{"/", "public, max-age=60, stale-while-revalidate=3600"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Cache-Control"); got != tt.want {
			t.Errorf("path %s: Cache-Control = %q, want %q", tt.path, got, tt.want)
		}
	}
}
