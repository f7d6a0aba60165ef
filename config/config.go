package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Tokopedia TokopediaConfig
	Scrape    ScrapeConfig
	Snapshot  SnapshotConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// TokopediaConfig holds upstream marketplace API configuration
type TokopediaConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// ScrapeConfig holds scrape defaults and the scrape-result cache TTL
type ScrapeConfig struct {
	MaxResults     int           `mapstructure:"max_results"`
	MaxReviews     int           `mapstructure:"max_reviews"`
	IncludeDetails bool          `mapstructure:"include_details"`
	IncludeReviews bool          `mapstructure:"include_reviews"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// SnapshotConfig holds the persisted-batch fallback location
type SnapshotConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/marketlens/")

	v.SetEnvPrefix("MARKETLENS")
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
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("tokopedia.base_url", "https://api.tokopedia.local")

	v.SetDefault("scrape.max_results", 50)
	v.SetDefault("scrape.max_reviews", 10)
	v.SetDefault("scrape.include_details", true)
	v.SetDefault("scrape.include_reviews", true)
	v.SetDefault("scrape.cache_ttl", "15m")

	v.SetDefault("snapshot.path", "data/output.json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Tokopedia.BaseURL == "" {
		return fmt.Errorf("tokopedia base URL is required (set MARKETLENS_TOKOPEDIA_BASE_URL)")
	}

	if config.Scrape.MaxResults <= 0 {
		return fmt.Errorf("scrape max_results must be positive, got: %d", config.Scrape.MaxResults)
	}

	if config.Scrape.MaxReviews <= 0 {
		return fmt.Errorf("scrape max_reviews must be positive, got: %d", config.Scrape.MaxReviews)
	}

	if config.Snapshot.Path == "" {
		return fmt.Errorf("snapshot path must not be empty")
	}

	return nil
}
