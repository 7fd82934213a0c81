package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Resolver ResolverConfig `toml:"resolver"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Database DatabaseConfig `toml:"database"`
	Cache    CacheConfig    `toml:"cache"`
}

// ResolverConfig holds the track-resolution tunables. Valid ranges are
// enforced by [Config.Validate] once at load time; nothing downstream
// clamps silently.
type ResolverConfig struct {
	WorkerCount           int `toml:"worker_count"`             // 1-20
	PerTrackBudgetSeconds int `toml:"per_track_budget_seconds"` // 10-300
	MinAcceptScore        int `toml:"min_accept_score"`         // 0-200
	MaxSearchResults      int `toml:"max_search_results"`       // 10-200
}

// PerTrackBudget returns the per-track wall-clock budget as a duration.
func (r ResolverConfig) PerTrackBudget() time.Duration {
	return time.Duration(r.PerTrackBudgetSeconds) * time.Second
}

// CatalogConfig contains the catalog provider endpoint settings.
type CatalogConfig struct {
	BaseURL      string            `toml:"base_url"`
	UserAgent    string            `toml:"user_agent"`
	RateLimitRPS float64           `toml:"rate_limit_rps"`
	Auth         CatalogAuthConfig `toml:"auth"`
}

// CatalogAuthConfig holds optional OAuth2 client-credentials settings.
type CatalogAuthConfig struct {
	TokenURL     string `toml:"token_url"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Enabled reports whether client-credentials auth is configured.
func (a CatalogAuthConfig) Enabled() bool {
	return a.TokenURL != "" && a.ClientID != ""
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CacheConfig contains cache expiry settings.
type CacheConfig struct {
	TTLHours int `toml:"ttl_hours"`
}

// TTL returns the configured cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// LoadConfig reads, parses and validates a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate fails fast on out-of-range tunables instead of letting bad
// values clamp silently deep in the pipeline.
func (c *Config) Validate() error {
	checks := []struct {
		name     string
		value    int
		min, max int
	}{
		{"resolver.worker_count", c.Resolver.WorkerCount, 1, 20},
		{"resolver.per_track_budget_seconds", c.Resolver.PerTrackBudgetSeconds, 10, 300},
		{"resolver.min_accept_score", c.Resolver.MinAcceptScore, 0, 200},
		{"resolver.max_search_results", c.Resolver.MaxSearchResults, 10, 200},
		{"cache.ttl_hours", c.Cache.TTLHours, 1, 24 * 30},
	}
	for _, chk := range checks {
		if chk.value < chk.min || chk.value > chk.max {
			return fmt.Errorf("%w: %s %d outside [%d,%d]",
				ErrInvalidConfig, chk.name, chk.value, chk.min, chk.max)
		}
	}

	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("%w: catalog.base_url is required", ErrInvalidConfig)
	}
	if c.Catalog.RateLimitRPS <= 0 {
		return fmt.Errorf("%w: catalog.rate_limit_rps must be positive", ErrInvalidConfig)
	}
	return nil
}
