package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Matching   MatchingConfig
	Catalog    CatalogConfig
	Storefront StorefrontConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MatchingConfig holds the matching engine toggle and tolerance policy
type MatchingConfig struct {
	Enabled                  bool    `mapstructure:"enabled"`
	BaseTolerancePercent     float64 `mapstructure:"base_tolerance_percent"`
	ThreePhaseToleranceFloor float64 `mapstructure:"three_phase_tolerance_floor"`
	DefaultLimit             int     `mapstructure:"default_limit"`
	MaxLimit                 int     `mapstructure:"max_limit"`
	EnableDebugLogging       bool    `mapstructure:"enable_debug_logging"`
}

// CatalogConfig holds catalog store configuration
type CatalogConfig struct {
	DBPath      string        `mapstructure:"db_path"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

// StorefrontConfig holds the upstream storefront API configuration
type StorefrontConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	APIKey            string  `mapstructure:"api_key"`
	PageSize          int     `mapstructure:"page_size"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/chargematch/")

	// CHARGEMATCH_MATCHING_BASE_TOLERANCE_PERCENT -> matching.base_tolerance_percent
	v.SetEnvPrefix("CHARGEMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Matching defaults
	v.SetDefault("matching.enabled", true)
	v.SetDefault("matching.base_tolerance_percent", 25.0)
	v.SetDefault("matching.three_phase_tolerance_floor", 40.0)
	v.SetDefault("matching.default_limit", 10)
	v.SetDefault("matching.max_limit", 50)
	v.SetDefault("matching.enable_debug_logging", false)

	// Catalog defaults
	v.SetDefault("catalog.db_path", "data/catalog.db")
	v.SetDefault("catalog.snapshot_ttl", "5m")

	// Storefront defaults
	v.SetDefault("storefront.base_url", "")
	v.SetDefault("storefront.api_key", "")
	v.SetDefault("storefront.page_size", 100)
	v.SetDefault("storefront.requests_per_second", 2.0)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
}

// validate validates the configuration
func validate(config *Config) error {
	m := config.Matching

	// zero is rejected: the engine reads a zero tolerance as "use the default"
	if m.BaseTolerancePercent <= 0 || m.BaseTolerancePercent > 100 {
		return fmt.Errorf("matching.base_tolerance_percent must be greater than 0 and at most 100, got: %v", m.BaseTolerancePercent)
	}
	if m.ThreePhaseToleranceFloor <= 0 || m.ThreePhaseToleranceFloor > 100 {
		return fmt.Errorf("matching.three_phase_tolerance_floor must be greater than 0 and at most 100, got: %v", m.ThreePhaseToleranceFloor)
	}
	if m.MaxLimit < 1 || m.MaxLimit > 50 {
		return fmt.Errorf("matching.max_limit must be between 1 and 50, got: %d", m.MaxLimit)
	}
	if m.DefaultLimit < 1 || m.DefaultLimit > m.MaxLimit {
		return fmt.Errorf("matching.default_limit must be between 1 and %d, got: %d", m.MaxLimit, m.DefaultLimit)
	}

	if config.Catalog.DBPath == "" {
		return fmt.Errorf("catalog.db_path is required (set CHARGEMATCH_CATALOG_DB_PATH)")
	}
	if config.Catalog.SnapshotTTL < 0 {
		return fmt.Errorf("catalog.snapshot_ttl must not be negative, got: %s", config.Catalog.SnapshotTTL)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit.per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
