package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Extraction ExtractionConfig
	Export     ExportConfig
	Notify     NotifyConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds the local UI server configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractionConfig holds the remote extraction service configuration
type ExtractionConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ExportConfig holds the export artifact configuration
type ExportConfig struct {
	Directory string `mapstructure:"directory"`
}

// NotifyConfig holds the status notifier configuration
type NotifyConfig struct {
	AutoDismiss time.Duration `mapstructure:"auto_dismiss"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerClient float64 `mapstructure:"per_client"`
	Burst     int     `mapstructure:"burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/leafletlens/")

	v.SetEnvPrefix("LEAFLETLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8080"})

	v.SetDefault("extraction.base_url", "http://localhost:5000")
	v.SetDefault("extraction.timeout", "60s")

	v.SetDefault("export.directory", ".")

	v.SetDefault("notify.auto_dismiss", "5s")

	v.SetDefault("ratelimit.per_client", 10.0)
	v.SetDefault("ratelimit.burst", 20)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Extraction.BaseURL == "" {
		return fmt.Errorf("extraction service base URL is required (set LEAFLETLENS_EXTRACTION_BASE_URL)")
	}

	if config.Extraction.Timeout <= 0 {
		return fmt.Errorf("extraction timeout must be positive, got: %s", config.Extraction.Timeout)
	}

	if config.RateLimit.PerClient <= 0 || config.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive, got: %.2f/s burst %d",
			config.RateLimit.PerClient, config.RateLimit.Burst)
	}

	return nil
}
