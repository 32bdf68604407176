package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MOVIEDECK_TMDB_API_KEY
const EnvPrefix = "MOVIEDECK"

// LoadOption tunes Load
type LoadOption func(*loadOptions)

type loadOptions struct {
	skipAPIKey bool
}

// WithoutAPIKey accepts a configuration without a TMDB API key, for commands
// that never call TMDB
func WithoutAPIKey() LoadOption {
	return func(o *loadOptions) {
		o.skipAPIKey = true
	}
}

// Load loads the configuration from file, .env and the environment. A
// missing config file is only an error when configPath names it.
func Load(configPath string, opts ...LoadOption) (*Config, error) {
	var options loadOptions
	for _, opt := range opts {
		opt(&options)
	}

	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The conventional name is honoured as well
	_ = v.BindEnv("tmdb.api_key", EnvPrefix+"_TMDB_API_KEY", "TMDB_API_KEY")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".moviedeck"))
		}

		// Check /etc
		v.AddConfigPath("/etc/moviedeck/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && configPath == "":
			// Defaults and environment only
		case errors.As(err, &notFound):
			return nil, fmt.Errorf("config file not found: %w", err)
		default:
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg, !options.skipAPIKey); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// DefaultSettingsPath is where user settings live when none is configured
func DefaultSettingsPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "moviedeck", "settings.json")
	}
	return filepath.Join(".moviedeck", "settings.json")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TMDB defaults
	v.SetDefault("tmdb.url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.language", "")
	v.SetDefault("tmdb.timeout", "30s")
	v.SetDefault("tmdb.retries", 3)
	v.SetDefault("tmdb.cache_ttl", "5m")
	v.SetDefault("tmdb.cache_size", 256)
	v.SetDefault("tmdb.concurrency", 8)

	// Hero slideshow defaults
	v.SetDefault("hero.trailer_duration", "2m")
	v.SetDefault("hero.still_duration", "5s")
	v.SetDefault("hero.settle_delay", "1s")
	v.SetDefault("hero.volume", 20)
	v.SetDefault("hero.trusted_origin", "https://www.youtube.com")

	// Server defaults
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.public_url", "")

	v.SetDefault("settings.path", DefaultSettingsPath())

	v.SetDefault("filter.default", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
}

// validate checks if the configuration is valid
func validate(cfg *Config, requireAPIKey bool) error {
	if cfg.TMDB.URL == "" {
		return fmt.Errorf("tmdb.url is required")
	}

	if requireAPIKey && (cfg.TMDB.APIKey == "" || cfg.TMDB.APIKey == "your-api-key-here") {
		return fmt.Errorf("tmdb.api_key must be set to a valid API key (or TMDB_API_KEY)")
	}

	if cfg.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive")
	}

	if cfg.Hero.TrailerDuration <= 0 || cfg.Hero.StillDuration <= 0 {
		return fmt.Errorf("hero.trailer_duration and hero.still_duration must be positive")
	}

	if cfg.Hero.SettleDelay < 0 {
		return fmt.Errorf("hero.settle_delay must not be negative")
	}

	if cfg.Hero.Volume < 0 || cfg.Hero.Volume > 100 {
		return fmt.Errorf("invalid hero.volume: %d (must be 0-100)", cfg.Hero.Volume)
	}

	if !strings.HasPrefix(cfg.Hero.TrustedOrigin, "https://") {
		return fmt.Errorf("invalid hero.trusted_origin: %s (must be an https origin)", cfg.Hero.TrustedOrigin)
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

	for name, expr := range cfg.Filter.Presets {
		if strings.TrimSpace(expr) == "" {
			return fmt.Errorf("filter preset %q has an empty expression", name)
		}
	}

	return nil
}
