package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from a temp dir so a developer's config.yaml cannot leak in.
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)

	assert.Equal(t, "https://world.openfoodfacts.org/api/v0/product", cfg.OpenFoodFacts.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.OpenFoodFacts.Timeout)
	assert.Equal(t, "EcoScan/1.0", cfg.OpenFoodFacts.UserAgent)

	assert.Equal(t, "file", cfg.Storage.Type)
	assert.Equal(t, "./data", cfg.Storage.Path)
	assert.Equal(t, "scanHistory", cfg.Storage.HistorySlot)

	assert.Equal(t, time.Second, cfg.Scan.DebounceWindow)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ECOSCAN_SERVER_PORT", "9090")
	t.Setenv("ECOSCAN_OPENFOODFACTS_BASE_URL", "http://localhost:8081/product")
	t.Setenv("ECOSCAN_STORAGE_TYPE", "memory")
	t.Setenv("ECOSCAN_SCAN_DEBOUNCE_WINDOW", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8081/product", cfg.OpenFoodFacts.BaseURL)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, 250*time.Millisecond, cfg.Scan.DebounceWindow)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir+"/config.yaml", `
server:
  port: "7070"
  environment: production
storage:
  type: sqlite
  path: /var/lib/ecoscan/history.db
scan:
  debounce_window: 2s
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "/var/lib/ecoscan/history.db", cfg.Storage.Path)
	assert.Equal(t, 2*time.Second, cfg.Scan.DebounceWindow)
	// Untouched sections keep their defaults.
	assert.Equal(t, "scanHistory", cfg.Storage.HistorySlot)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "missing base URL",
			mutate:  func(c *Config) { c.OpenFoodFacts.BaseURL = "" },
			wantErr: "base URL is required",
		},
		{
			name:    "unknown storage type",
			mutate:  func(c *Config) { c.Storage.Type = "redis" },
			wantErr: "storage type must be",
		},
		{
			name: "file storage without path",
			mutate: func(c *Config) {
				c.Storage.Type = "file"
				c.Storage.Path = ""
			},
			wantErr: "storage path is required",
		},
		{
			name: "memory storage needs no path",
			mutate: func(c *Config) {
				c.Storage.Type = "memory"
				c.Storage.Path = ""
			},
		},
		{
			name:    "empty slot name",
			mutate:  func(c *Config) { c.Storage.HistorySlot = "" },
			wantErr: "slot name",
		},
		{
			name:    "negative debounce window",
			mutate:  func(c *Config) { c.Scan.DebounceWindow = -time.Second },
			wantErr: "debounce window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				OpenFoodFacts: OpenFoodFactsConfig{BaseURL: "https://example.com/product"},
				Storage:       StorageConfig{Type: "file", Path: "./data", HistorySlot: "scanHistory"},
				Scan:          ScanConfig{DebounceWindow: time.Second},
			}
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
