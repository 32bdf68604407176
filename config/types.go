package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB     TMDBConfig     `mapstructure:"tmdb"`
	Hero     HeroConfig     `mapstructure:"hero"`
	Server   ServerConfig   `mapstructure:"server"`
	Settings SettingsConfig `mapstructure:"settings"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// TMDBConfig holds TMDB API connection details
type TMDBConfig struct {
	URL         string        `mapstructure:"url"`
	APIKey      string        `mapstructure:"api_key"`
	Language    string        `mapstructure:"language"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Retries     uint          `mapstructure:"retries"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	CacheSize   int           `mapstructure:"cache_size"`
	Concurrency int           `mapstructure:"concurrency"`
}

// HeroConfig contains the slideshow timings and player settings
type HeroConfig struct {
	TrailerDuration time.Duration `mapstructure:"trailer_duration"`
	StillDuration   time.Duration `mapstructure:"still_duration"`
	SettleDelay     time.Duration `mapstructure:"settle_delay"`
	Volume          int           `mapstructure:"volume"`
	TrustedOrigin   string        `mapstructure:"trusted_origin"`
}

// ServerConfig contains the HTTP API settings
type ServerConfig struct {
	Listen          string        `mapstructure:"listen"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// PublicURL is the origin pages are served from, passed to embedded players
	PublicURL string `mapstructure:"public_url"`
}

// SettingsConfig locates the persisted user settings
type SettingsConfig struct {
	Path string `mapstructure:"path"`
}

// FilterConfig contains the default expression and named presets
type FilterConfig struct {
	Default string            `mapstructure:"default"`
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
	File   string `mapstructure:"file"`
	// Rotation settings for File
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`
}
