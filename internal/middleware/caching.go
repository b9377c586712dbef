package middleware

import (
	"net/http"
	"path"
	"strings"
)

// Edge cache policy by path class. Fingerprinted static assets are
// immutable; scripts and styles revalidate hourly; API responses are
// never cached; rendered pages are briefly cached and served stale
// while revalidating.
const (
	cacheControlStatic = "public, max-age=31536000, immutable"
	cacheControlAsset  = "public, max-age=3600, stale-while-revalidate=86400"
	cacheControlAPI    = "no-store, must-revalidate"
	cacheControlPage   = "public, max-age=60, stale-while-revalidate=3600"
)

// CacheControl returns middleware that sets the Cache-Control header by
// path class. Handlers may overwrite it for special cases.
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cachePolicy(r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// Image and font extensions that get the immutable policy wherever they
// are served from, not just under /static/.
var staticExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".avif": true, ".ico": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true,
}

func cachePolicy(p string) string {
	switch {
	case strings.HasPrefix(p, "/static/"), staticExtensions[strings.ToLower(path.Ext(p))]:
		return cacheControlStatic
	case strings.HasSuffix(p, ".js"), strings.HasSuffix(p, ".css"):
		return cacheControlAsset
	case strings.HasPrefix(p, "/api/"):
		return cacheControlAPI
	default:
		return cacheControlPage
	}
}
