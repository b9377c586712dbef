// Package config provides hierarchical configuration loading for Pagesmith.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the Pagesmith server.
type Config struct {
	Server       Server       `yaml:"server"`
	Tenancy      Tenancy      `yaml:"tenancy"`
	ContentStore ContentStore `yaml:"content_store"`
	Cache        Cache        `yaml:"cache"`
	NATS         NATS         `yaml:"nats"`
	Logging      Logging      `yaml:"logging"`
	Breaker      Breaker      `yaml:"breaker"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port          string `yaml:"port"`
	Env           string `yaml:"env"` // "development" | "production"
	WebhookSecret string `yaml:"webhook_secret"`
	AdminToken    string `yaml:"admin_token"`
}

// Tenancy holds the domain-to-tenant mapping table.
type Tenancy struct {
	BaseDomain string   `yaml:"base_domain"` // primary domain; www/staging/localhost rows derive from it
	SiteURL    string   `yaml:"site_url"`    // canonical site URL override for the primary tenant
	Tenants    []Tenant `yaml:"tenants"`     // additional tenant domains beyond the derived defaults
}

// Tenant is one row of the domain mapping table.
type Tenant struct {
	Domain       string `yaml:"domain"`
	Dataset      string `yaml:"dataset"`
	ClientID     string `yaml:"client_id"`
	ProjectID    string `yaml:"project_id"`
	SiteURL      string `yaml:"site_url"`
	Enabled      *bool  `yaml:"enabled"` // nil means enabled
	BrandingName string `yaml:"branding_name"`
}

// ContentStore holds connection parameters for the headless content store.
type ContentStore struct {
	BaseURL        string        `yaml:"base_url"` // override for testing; normally derived from project ID
	ProjectID      string        `yaml:"project_id"`
	DefaultDataset string        `yaml:"default_dataset"`
	APIVersion     string        `yaml:"api_version"`
	UseCDN         bool          `yaml:"use_cdn"`
	Token          string        `yaml:"token"` // preview/draft token, passed through opaquely
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
}

// Cache holds page/content cache configuration.
type Cache struct {
	L1MaxSizeMB int64         `yaml:"l1_max_size_mb"`
	L2Bucket    string        `yaml:"l2_bucket"` // empty disables the L2 tier
	PageTTL     time.Duration `yaml:"page_ttl"`
	SettingsTTL time.Duration `yaml:"settings_ttl"`
}

// NATS holds NATS JetStream configuration for content revalidation events.
type NATS struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Breaker holds circuit breaker configuration for content-store calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port: "8080",
			Env:  "development",
		},
		Tenancy: Tenancy{
			BaseDomain: "example.com",
		},
		ContentStore: ContentStore{
			DefaultDataset: "development",
			APIVersion:     "2024-10-31",
			UseCDN:         true,
			FetchTimeout:   10 * time.Second,
		},
		Cache: Cache{
			L1MaxSizeMB: 64,
			PageTTL:     time.Minute,
			SettingsTTL: 5 * time.Minute,
		},
		NATS: NATS{
			URL:     "nats://localhost:4222",
			Enabled: false,
		},
		Logging: Logging{
			Level:   "info",
			Service: "pagesmith",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
	}
}
