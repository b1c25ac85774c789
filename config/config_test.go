package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("CHARGEMATCH_SERVER_PORT")
		os.Unsetenv("CHARGEMATCH_SERVER_ENVIRONMENT")
		os.Unsetenv("CHARGEMATCH_MATCHING_ENABLED")
		os.Unsetenv("CHARGEMATCH_MATCHING_BASE_TOLERANCE_PERCENT")
		os.Unsetenv("CHARGEMATCH_MATCHING_THREE_PHASE_TOLERANCE_FLOOR")
		os.Unsetenv("CHARGEMATCH_MATCHING_DEFAULT_LIMIT")
		os.Unsetenv("CHARGEMATCH_MATCHING_MAX_LIMIT")
		os.Unsetenv("CHARGEMATCH_CATALOG_DB_PATH")
		os.Unsetenv("CHARGEMATCH_CATALOG_SNAPSHOT_TTL")
		os.Unsetenv("CHARGEMATCH_STOREFRONT_BASE_URL")
		os.Unsetenv("CHARGEMATCH_STOREFRONT_API_KEY")
		os.Unsetenv("CHARGEMATCH_RATELIMIT_PER_IP")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if !cfg.Matching.Enabled {
			t.Error("Matching.Enabled = false, want true")
		}
		if cfg.Matching.BaseTolerancePercent != 25 {
			t.Errorf("Matching.BaseTolerancePercent = %v, want 25", cfg.Matching.BaseTolerancePercent)
		}
		if cfg.Matching.ThreePhaseToleranceFloor != 40 {
			t.Errorf("Matching.ThreePhaseToleranceFloor = %v, want 40", cfg.Matching.ThreePhaseToleranceFloor)
		}
		if cfg.Matching.DefaultLimit != 10 {
			t.Errorf("Matching.DefaultLimit = %d, want 10", cfg.Matching.DefaultLimit)
		}
		if cfg.Matching.MaxLimit != 50 {
			t.Errorf("Matching.MaxLimit = %d, want 50", cfg.Matching.MaxLimit)
		}
		if cfg.Catalog.DBPath != "data/catalog.db" {
			t.Errorf("Catalog.DBPath = %s, want data/catalog.db", cfg.Catalog.DBPath)
		}
		if cfg.Catalog.SnapshotTTL != 5*time.Minute {
			t.Errorf("Catalog.SnapshotTTL = %v, want 5m", cfg.Catalog.SnapshotTTL)
		}
		if cfg.Storefront.PageSize != 100 {
			t.Errorf("Storefront.PageSize = %d, want 100", cfg.Storefront.PageSize)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("CHARGEMATCH_SERVER_PORT", "9090")
		os.Setenv("CHARGEMATCH_SERVER_ENVIRONMENT", "production")
		os.Setenv("CHARGEMATCH_MATCHING_ENABLED", "false")
		os.Setenv("CHARGEMATCH_MATCHING_BASE_TOLERANCE_PERCENT", "30")
		os.Setenv("CHARGEMATCH_MATCHING_DEFAULT_LIMIT", "5")
		os.Setenv("CHARGEMATCH_CATALOG_DB_PATH", "/var/lib/chargematch/catalog.db")
		os.Setenv("CHARGEMATCH_CATALOG_SNAPSHOT_TTL", "30s")
		os.Setenv("CHARGEMATCH_STOREFRONT_BASE_URL", "https://shop.example.com/api")
		os.Setenv("CHARGEMATCH_STOREFRONT_API_KEY", "secret")
		os.Setenv("CHARGEMATCH_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Matching.Enabled {
			t.Error("Matching.Enabled = true, want false")
		}
		if cfg.Matching.BaseTolerancePercent != 30 {
			t.Errorf("Matching.BaseTolerancePercent = %v, want 30", cfg.Matching.BaseTolerancePercent)
		}
		if cfg.Matching.DefaultLimit != 5 {
			t.Errorf("Matching.DefaultLimit = %d, want 5", cfg.Matching.DefaultLimit)
		}
		if cfg.Catalog.DBPath != "/var/lib/chargematch/catalog.db" {
			t.Errorf("Catalog.DBPath = %s, want /var/lib/chargematch/catalog.db", cfg.Catalog.DBPath)
		}
		if cfg.Catalog.SnapshotTTL != 30*time.Second {
			t.Errorf("Catalog.SnapshotTTL = %v, want 30s", cfg.Catalog.SnapshotTTL)
		}
		if cfg.Storefront.BaseURL != "https://shop.example.com/api" {
			t.Errorf("Storefront.BaseURL = %s, want https://shop.example.com/api", cfg.Storefront.BaseURL)
		}
		if cfg.Storefront.APIKey != "secret" {
			t.Errorf("Storefront.APIKey = %s, want secret", cfg.Storefront.APIKey)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("fails validation for out of range tolerance", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("CHARGEMATCH_MATCHING_BASE_TOLERANCE_PERCENT", "150")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for tolerance above 100")
		}
		if !strings.Contains(err.Error(), "base_tolerance_percent") {
			t.Errorf("Load() error = %v, want mention of base_tolerance_percent", err)
		}
	})

	t.Run("fails validation for zero tolerance from environment", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("CHARGEMATCH_MATCHING_BASE_TOLERANCE_PERCENT", "0")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero tolerance")
		}
	})

	t.Run("fails validation when max limit exceeds cap", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("CHARGEMATCH_MATCHING_MAX_LIMIT", "51")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for max_limit above 50")
		}
	})

	t.Run("fails validation when default limit exceeds max limit", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("CHARGEMATCH_MATCHING_MAX_LIMIT", "5")
		os.Setenv("CHARGEMATCH_MATCHING_DEFAULT_LIMIT", "10")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for default_limit above max_limit")
		}
	})

	t.Run("empty db path env var falls back to default", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("CHARGEMATCH_CATALOG_DB_PATH", "")
		defer cleanupEnv()

		// An empty env var is ignored by viper unless AllowEmptyEnv is set,
		// so the default path still applies.
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Catalog.DBPath != "data/catalog.db" {
			t.Errorf("Catalog.DBPath = %s, want data/catalog.db", cfg.Catalog.DBPath)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Matching: MatchingConfig{
				Enabled:                  true,
				BaseTolerancePercent:     25,
				ThreePhaseToleranceFloor: 40,
				DefaultLimit:             10,
				MaxLimit:                 50,
			},
			Catalog: CatalogConfig{DBPath: "catalog.db", SnapshotTTL: time.Minute},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}, wantErr: false},
		{name: "full tolerance allowed", mutate: func(c *Config) { c.Matching.BaseTolerancePercent = 100 }, wantErr: false},
		{name: "zero tolerance rejected", mutate: func(c *Config) { c.Matching.BaseTolerancePercent = 0 }, wantErr: true},
		{name: "zero three-phase floor rejected", mutate: func(c *Config) { c.Matching.ThreePhaseToleranceFloor = 0 }, wantErr: true},
		{name: "negative tolerance", mutate: func(c *Config) { c.Matching.BaseTolerancePercent = -1 }, wantErr: true},
		{name: "floor above 100", mutate: func(c *Config) { c.Matching.ThreePhaseToleranceFloor = 101 }, wantErr: true},
		{name: "max limit zero", mutate: func(c *Config) { c.Matching.MaxLimit = 0 }, wantErr: true},
		{name: "default limit zero", mutate: func(c *Config) { c.Matching.DefaultLimit = 0 }, wantErr: true},
		{name: "empty db path", mutate: func(c *Config) { c.Catalog.DBPath = "" }, wantErr: true},
		{name: "negative snapshot ttl", mutate: func(c *Config) { c.Catalog.SnapshotTTL = -time.Second }, wantErr: true},
		{name: "negative per-ip limit", mutate: func(c *Config) { c.RateLimit.PerIP = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)

	tempDir := t.TempDir()
	os.Chdir(tempDir)

	envContent := `
# Comment line
CHARGEMATCH_SERVER_PORT=7070
CHARGEMATCH_MATCHING_MAX_LIMIT=20
`
	if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
		t.Fatalf("Failed to create test .env file: %v", err)
	}
	os.Unsetenv("CHARGEMATCH_SERVER_PORT")
	os.Unsetenv("CHARGEMATCH_MATCHING_MAX_LIMIT")
	defer os.Unsetenv("CHARGEMATCH_SERVER_PORT")
	defer os.Unsetenv("CHARGEMATCH_MATCHING_MAX_LIMIT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Server.Port = %s, want 7070 from .env", cfg.Server.Port)
	}
	if cfg.Matching.MaxLimit != 20 {
		t.Errorf("Matching.MaxLimit = %d, want 20 from .env", cfg.Matching.MaxLimit)
	}
}

func TestLoadConfigFile(t *testing.T) {
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)

	tempDir := t.TempDir()
	os.Chdir(tempDir)

	yamlContent := `
matching:
  base_tolerance_percent: 15
  three_phase_tolerance_floor: 35
catalog:
  snapshot_ttl: 1m
`
	if err := os.WriteFile("config.yaml", []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.Matching.BaseTolerancePercent != 15 {
		t.Errorf("Matching.BaseTolerancePercent = %v, want 15", cfg.Matching.BaseTolerancePercent)
	}
	if cfg.Matching.ThreePhaseToleranceFloor != 35 {
		t.Errorf("Matching.ThreePhaseToleranceFloor = %v, want 35", cfg.Matching.ThreePhaseToleranceFloor)
	}
	if cfg.Catalog.SnapshotTTL != time.Minute {
		t.Errorf("Catalog.SnapshotTTL = %v, want 1m", cfg.Catalog.SnapshotTTL)
	}
}
