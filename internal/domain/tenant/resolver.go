package tenant

import (
	"fmt"
	"strings"

	"github.com/pagesmith/pagesmith/internal/config"
	"github.com/pagesmith/pagesmith/internal/domain"
)

// Resolver resolves normalized hostnames to tenant configurations using a
// static table. The table is built once at startup; Resolve has no side
// effects and is safe for concurrent use.
type Resolver struct {
	table map[string]Config
}

// NewResolver builds the domain table from configuration.
//
// The base domain contributes four derived rows: the apex domain, its www
// variant, a staging subdomain, and localhost for development. Rows from
// cfg.Tenants are added on top and may override the derived ones. Disabled
// tenants are excluded from the table entirely, so resolution treats them
// exactly like unknown domains.
func NewResolver(cfg config.Tenancy, store config.ContentStore) *Resolver {
	table := make(map[string]Config)

	production := store.DefaultDataset
	base := Config{
		Domain:       Normalize(cfg.BaseDomain),
		Dataset:      production,
		ClientID:     "primary",
		ProjectID:    store.ProjectID,
		SiteURL:      cfg.SiteURL,
		Enabled:      true,
		BrandingName: cfg.BaseDomain,
	}
	table[base.Domain] = base

	www := base
	www.Domain = "www." + base.Domain
	table[www.Domain] = www

	staging := base
	staging.Domain = "staging." + base.Domain
	staging.ClientID = "primary-staging"
	staging.SiteURL = ""
	table[staging.Domain] = staging

	dev := base
	dev.Domain = "localhost"
	dev.ClientID = "primary-dev"
	dev.SiteURL = ""
	table[dev.Domain] = dev

	for _, t := range cfg.Tenants {
		if t.Enabled != nil && !*t.Enabled {
			continue
		}
		row := Config{
			Domain:       Normalize(t.Domain),
			Dataset:      t.Dataset,
			ClientID:     t.ClientID,
			ProjectID:    t.ProjectID,
			SiteURL:      t.SiteURL,
			Enabled:      true,
			BrandingName: t.BrandingName,
		}
		if row.ClientID == "" {
			row.ClientID = row.Dataset
		}
		if row.ProjectID == "" {
			row.ProjectID = store.ProjectID
		}
		table[row.Domain] = row

		// A www-canonical tenant also answers on its bare apex, so the
		// redirect middleware can send visitors to the canonical host.
		if apex, ok := strings.CutPrefix(row.Domain, "www."); ok {
			if _, taken := table[apex]; !taken {
				table[apex] = row
			}
		}
	}

	return &Resolver{table: table}
}

// Resolve maps a hostname to its tenant configuration.
// Returns domain.ErrDomainUnresolved when no enabled tenant matches; the
// caller decides the 404. There is deliberately no fallback tenant: serving
// one tenant's chrome against another's dataset is a cross-tenant leak.
func (r *Resolver) Resolve(host string) (Config, error) {
	c, ok := r.table[Normalize(host)]
	if !ok {
		return Config{}, fmt.Errorf("resolve %q: %w", host, domain.ErrDomainUnresolved)
	}
	return c, nil
}

// RedirectTarget reports whether a request for host should be permanently
// redirected to the tenant's canonical form, and the absolute target URL.
//
// The one redirect rule: when the matched config's canonical domain carries
// a www. prefix that the request host lacks, redirect to the canonical URL
// preserving path and query.
func (r *Resolver) RedirectTarget(c Config, host, pathAndQuery string) (string, bool) {
	requested := Normalize(host)
	if strings.HasPrefix(c.Domain, "www.") && !strings.HasPrefix(requested, "www.") {
		return SiteURL(c) + pathAndQuery, true
	}
	return "", false
}

// Domains returns all configured tenant domains, for diagnostics.
func (r *Resolver) Domains() []string {
	out := make([]string, 0, len(r.table))
	for d := range r.table {
		out = append(out, d)
	}
	return out
}
