// Package tenant maps inbound hostnames to tenant configurations.
//
// Each tenant is one client site served from an isolated dataset of the
// shared content store. Resolution is an exact match against a static
// table built from configuration; there is no wildcard matching and no
// default tenant: an unknown hostname fails resolution.
package tenant

import "strings"

// Config describes one tenant: the domain it is served under and the
// content-store dataset its content lives in.
type Config struct {
	Domain       string // normalized hostname, unique key
	Dataset      string
	ClientID     string
	ProjectID    string
	SiteURL      string // canonical site URL; derived from Domain when empty
	Enabled      bool
	BrandingName string
}

// Context is the per-request tenant identity derived once by the request
// middleware and threaded through context.Context to downstream handlers.
type Context struct {
	Domain    string
	ClientID  string
	Dataset   string
	ProjectID string
	SiteURL   string // canonical absolute base URL, no trailing slash
}

// Normalize lowercases a hostname and strips any port suffix.
// Normalize is idempotent: Normalize(Normalize(h)) == Normalize(h).
func Normalize(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	// IPv6 literals keep their brackets; ports sit after the closing bracket.
	if i := strings.LastIndex(host, ":"); i != -1 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return host
}

// IsLoopback reports whether the domain is a local development host.
func IsLoopback(domain string) bool {
	d := Normalize(domain)
	return d == "localhost" || d == "127.0.0.1" || strings.HasSuffix(d, ".localhost")
}

// SiteURL returns the canonical absolute URL for a tenant.
func SiteURL(c Config) string {
	if c.SiteURL != "" {
		return strings.TrimSuffix(c.SiteURL, "/")
	}
	scheme := "https"
	if IsLoopback(c.Domain) {
		scheme = "http"
	}
	return scheme + "://" + c.Domain
}
