package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "pagesmith.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// A .env file in the working directory is loaded into the environment
// first (existing variables win). YAML file is optional.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PAGESMITH_PORT")
	setString(&cfg.Server.Env, "PAGESMITH_ENV")
	setString(&cfg.Server.WebhookSecret, "PAGESMITH_WEBHOOK_SECRET")
	setString(&cfg.Server.AdminToken, "PAGESMITH_ADMIN_TOKEN")
	setString(&cfg.Tenancy.BaseDomain, "PAGESMITH_BASE_DOMAIN")
	setString(&cfg.Tenancy.SiteURL, "PAGESMITH_SITE_URL")
	setString(&cfg.ContentStore.BaseURL, "CONTENT_STORE_URL")
	setString(&cfg.ContentStore.ProjectID, "CONTENT_STORE_PROJECT_ID")
	setString(&cfg.ContentStore.DefaultDataset, "CONTENT_STORE_DATASET")
	setString(&cfg.ContentStore.APIVersion, "CONTENT_STORE_API_VERSION")
	setBool(&cfg.ContentStore.UseCDN, "CONTENT_STORE_USE_CDN")
	setString(&cfg.ContentStore.Token, "CONTENT_STORE_TOKEN")
	setDuration(&cfg.ContentStore.FetchTimeout, "CONTENT_STORE_FETCH_TIMEOUT")
	setInt64(&cfg.Cache.L1MaxSizeMB, "PAGESMITH_CACHE_L1_SIZE_MB")
	setString(&cfg.Cache.L2Bucket, "PAGESMITH_CACHE_L2_BUCKET")
	setDuration(&cfg.Cache.PageTTL, "PAGESMITH_CACHE_PAGE_TTL")
	setDuration(&cfg.Cache.SettingsTTL, "PAGESMITH_CACHE_SETTINGS_TTL")
	setString(&cfg.NATS.URL, "NATS_URL")
	setBool(&cfg.NATS.Enabled, "PAGESMITH_NATS_ENABLED")
	setString(&cfg.Logging.Level, "PAGESMITH_LOG_LEVEL")
	setString(&cfg.Logging.Service, "PAGESMITH_LOG_SERVICE")
	setInt(&cfg.Breaker.MaxFailures, "PAGESMITH_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "PAGESMITH_BREAKER_TIMEOUT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Tenancy.BaseDomain == "" {
		return errors.New("tenancy.base_domain is required")
	}
	if cfg.ContentStore.ProjectID == "" && cfg.ContentStore.BaseURL == "" {
		return errors.New("content_store.project_id is required")
	}
	if cfg.ContentStore.APIVersion == "" {
		return errors.New("content_store.api_version is required")
	}
	if cfg.ContentStore.FetchTimeout <= 0 {
		return errors.New("content_store.fetch_timeout must be > 0")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	for i, t := range cfg.Tenancy.Tenants {
		if t.Domain == "" {
			return fmt.Errorf("tenancy.tenants[%d].domain is required", i)
		}
		if t.Dataset == "" {
			return fmt.Errorf("tenancy.tenants[%d].dataset is required", i)
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
