package middleware

import (
	"net/http"
	"strings"

	"github.com/pagesmith/pagesmith/internal/domain/tenant"
)

// Origins the sites legitimately load from: the content store's CDN and
// API, analytics, fonts, and embedded video players.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' 'unsafe-eval' https://cdn.sanity.io https://*.sanity.io https://www.googletagmanager.com https://www.google-analytics.com; " +
	"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
	"img-src 'self' data: blob: https://cdn.sanity.io https://*.sanity.io https://www.google-analytics.com; " +
	"font-src 'self' https://fonts.gstatic.com; " +
	"connect-src 'self' https://*.sanity.io https://www.google-analytics.com; " +
	"frame-src 'self' https://www.youtube.com https://player.vimeo.com; " +
	"frame-ancestors 'self'"

// SecurityHeaders returns middleware that stamps the standard security
// headers on every response. HSTS is only meaningful over TLS, so it is
// skipped in non-production environments and for loopback hosts.
func SecurityHeaders(env string) func(http.Handler) http.Handler {
	production := strings.EqualFold(env, "production")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", contentSecurityPolicy)
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			if production && !tenant.IsLoopback(RequestHost(r)) {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
			}

			next.ServeHTTP(w, r)
		})
	}
}
