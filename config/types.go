package config

// Config represents the complete configuration structure. The credential
// fields live at the top level of the file; everything else is optional
// tuning with sensible defaults.
type Config struct {
	APIKey           string `mapstructure:"api-key"`
	APISecret        string `mapstructure:"api-secret"`
	OAuthToken       string `mapstructure:"oauth-token"`
	OAuthTokenSecret string `mapstructure:"oauth-token-secret"`

	Recommend RecommendConfig `mapstructure:"recommend"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// RecommendConfig tunes the recommendation pipeline
type RecommendConfig struct {
	// Shelf seeds the recommendations
	Shelf string `mapstructure:"shelf"`
	// ExcludeShelf names the shelf whose books never appear in the output
	ExcludeShelf string `mapstructure:"exclude-shelf"`
	// PerPage is the fixed page size for shelf listings
	PerPage int `mapstructure:"per-page"`
	// Concurrency bounds the parallel similar-books lookups
	Concurrency int `mapstructure:"concurrency"`
}

// FilterConfig contains filter expression definitions
type FilterConfig struct {
	// Default is applied when no --filter/--preset is given
	Default string `mapstructure:"default"`
	// Presets are named expressions selectable with --preset
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
