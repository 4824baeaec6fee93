package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	OpenFoodFacts OpenFoodFactsConfig `mapstructure:"openfoodfacts"`
	Storage       StorageConfig
	Scan          ScanConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OpenFoodFactsConfig holds the product-lookup endpoint configuration
type OpenFoodFactsConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// StorageConfig selects and parameterizes the history storage backend.
// Path is a directory for the file backend and a database file for sqlite.
type StorageConfig struct {
	Type        string `mapstructure:"type"` // "memory", "file" or "sqlite"
	Path        string `mapstructure:"path"`
	HistorySlot string `mapstructure:"history_slot"`
}

// ScanConfig holds assessment-session tuning
type ScanConfig struct {
	DebounceWindow time.Duration `mapstructure:"debounce_window"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ecoscan/")

	// Environment variable settings
	v.SetEnvPrefix("ECOSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
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
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Open Food Facts defaults (v0 product endpoint)
	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org/api/v0/product")
	v.SetDefault("openfoodfacts.timeout", "10s")
	v.SetDefault("openfoodfacts.user_agent", "EcoScan/1.0")

	// Storage defaults
	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.path", "./data")
	v.SetDefault("storage.history_slot", "scanHistory")

	// Scan defaults
	v.SetDefault("scan.debounce_window", "1s")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.OpenFoodFacts.BaseURL == "" {
		return fmt.Errorf("product lookup base URL is required (set ECOSCAN_OPENFOODFACTS_BASE_URL)")
	}

	switch config.Storage.Type {
	case "memory":
	case "file", "sqlite":
		if config.Storage.Path == "" {
			return fmt.Errorf("storage path is required when storage type is %q", config.Storage.Type)
		}
	default:
		return fmt.Errorf("storage type must be 'memory', 'file' or 'sqlite', got: %s", config.Storage.Type)
	}

	if config.Storage.HistorySlot == "" {
		return fmt.Errorf("history slot name must not be empty")
	}

	if config.Scan.DebounceWindow < 0 {
		return fmt.Errorf("scan debounce window must not be negative")
	}

	return nil
}
