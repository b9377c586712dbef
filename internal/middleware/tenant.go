package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/pagesmith/pagesmith/internal/domain/tenant"
)

// Response headers exposing the resolved tenant, mirrored onto every
// tenant-scoped response for edge caches and debugging.
const (
	headerDomain    = "X-Domain"
	headerClientID  = "X-Client-Id"
	headerDataset   = "X-Dataset"
	headerProjectID = "X-Project-Id"
)

// headerForwardedHost carries the original hostname when the server sits
// behind a proxy or CDN.
const headerForwardedHost = "X-Forwarded-Host"

// tenantExemptPaths bypass tenant resolution entirely: they are not
// tenant-scoped and must work even for unknown hosts.
var tenantExemptPrefixes = []string{
	"/healthz",
	"/static/",
	"/favicon.ico",
	"/api/",
}

// RequestHost returns the hostname the visitor actually requested,
// preferring the forwarded host set by the edge proxy.
func RequestHost(r *http.Request) string {
	if fh := r.Header.Get(headerForwardedHost); fh != "" {
		return fh
	}
	return r.Host
}

// Tenant returns middleware that resolves the request hostname to a
// tenant, issues the canonical-host redirect when needed, and threads
// the tenant identity through the request context.
//
// An unresolved hostname is a hard 404: there is no fallback tenant.
func Tenant(resolver *tenant.Resolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tenantExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			host := RequestHost(r)
			cfg, err := resolver.Resolve(host)
			if err != nil {
				log.Warn("unresolved domain", "host", host, "path", r.URL.Path)
				http.NotFound(w, r)
				return
			}

			if target, ok := resolver.RedirectTarget(cfg, host, r.URL.RequestURI()); ok {
				http.Redirect(w, r, target, http.StatusMovedPermanently)
				return
			}

			tc := tenant.NewContext(cfg)
			w.Header().Set(headerDomain, tc.Domain)
			w.Header().Set(headerClientID, tc.ClientID)
			w.Header().Set(headerDataset, tc.Dataset)
			w.Header().Set(headerProjectID, tc.ProjectID)

			next.ServeHTTP(w, r.WithContext(tenant.WithContext(r.Context(), tc)))
		})
	}
}

func tenantExempt(path string) bool {
	for _, p := range tenantExemptPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
