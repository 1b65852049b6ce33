package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetConfigFile(configPath)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Recommendation defaults
	v.SetDefault("recommend.shelf", "read")
	v.SetDefault("recommend.exclude-shelf", "currently-reading")
	v.SetDefault("recommend.per-page", 200)
	v.SetDefault("recommend.concurrency", 4)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("api-key is required")
	}
	if cfg.APISecret == "" {
		return fmt.Errorf("api-secret is required")
	}
	if cfg.OAuthToken == "" {
		return fmt.Errorf("oauth-token is required")
	}
	if cfg.OAuthTokenSecret == "" {
		return fmt.Errorf("oauth-token-secret is required")
	}

	if cfg.Recommend.Shelf == "" {
		return fmt.Errorf("recommend.shelf must not be empty")
	}
	if cfg.Recommend.ExcludeShelf == "" {
		return fmt.Errorf("recommend.exclude-shelf must not be empty")
	}
	if cfg.Recommend.PerPage <= 0 {
		return fmt.Errorf("recommend.per-page must be positive")
	}
	if cfg.Recommend.Concurrency <= 0 {
		return fmt.Errorf("recommend.concurrency must be positive")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
