// Package config loads application configuration from defaults, an optional
// config file, and environment variables via Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/ytlinks/internal/fetcher"
	"github.com/jonesrussell/ytlinks/internal/logger"
)

// Default scraper settings.
const (
	// DefaultDelay is the pause between consecutive page fetches.
	DefaultDelay = 500 * time.Millisecond
	// DefaultOutput is the default results file.
	DefaultOutput = "channel_links.json"
)

// App holds application-level settings.
type App struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// Scraper holds the scrape pipeline settings.
type Scraper struct {
	// ProxyPrefix is prepended to every about-page URL.
	ProxyPrefix string `mapstructure:"proxy_prefix"`
	// UserAgent is sent with every proxy request.
	UserAgent string `mapstructure:"user_agent"`
	// RequestTimeout bounds a single page fetch.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// Delay is the pause between consecutive page fetches.
	Delay time.Duration `mapstructure:"delay"`
	// Output is the destination JSON file.
	Output string `mapstructure:"output"`
}

// Config is the root configuration.
type Config struct {
	App     App           `mapstructure:"app"`
	Logger  logger.Config `mapstructure:"logger"`
	Scraper Scraper       `mapstructure:"scraper"`
}

// SetDefaults registers production-safe defaults on the global Viper.
func SetDefaults() {
	viper.SetDefault("app", map[string]any{
		"name":        "ytlinks",
		"version":     "1.0.0",
		"environment": "production",
		"debug":       false,
	})

	viper.SetDefault("logger", map[string]any{
		"level":       "info",
		"encoding":    "console",
		"development": false,
	})

	viper.SetDefault("scraper", map[string]any{
		"proxy_prefix":    fetcher.DefaultProxyPrefix,
		"user_agent":      fetcher.DefaultUserAgent,
		"request_timeout": fetcher.DefaultTimeout.String(),
		"delay":           DefaultDelay.String(),
		"output":          DefaultOutput,
	})
}

// Load unmarshals the global Viper state into a Config. Duration fields
// accept Go duration strings ("30s", "500ms") via Viper's default decode
// hooks.
func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Scraper.ProxyPrefix == "" {
		return fmt.Errorf("scraper.proxy_prefix must not be empty")
	}
	if c.Scraper.RequestTimeout <= 0 {
		return fmt.Errorf("scraper.request_timeout must be positive, got %s", c.Scraper.RequestTimeout)
	}
	if c.Scraper.Delay < 0 {
		// A negative delay is clamped rather than rejected.
		c.Scraper.Delay = 0
	}
	if c.Scraper.Output == "" {
		return fmt.Errorf("scraper.output must not be empty")
	}
	return nil
}
