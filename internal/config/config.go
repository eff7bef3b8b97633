// Package config loads and validates the rasterview application configuration
// from a YAML file with environment variable overrides.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Data       DataConfig       `mapstructure:"data"`
	View       ViewConfig       `mapstructure:"view"`
	Categories CategoriesConfig `mapstructure:"categories"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// DataConfig locates the tabular event source.
type DataConfig struct {
	Path string `mapstructure:"path"`
}

// ViewConfig holds the raster resolution and detail thresholds.
//
// DetailThreshold and SingleSeriesThreshold bound how many raw events are
// exposed for hover inspection before the detail layer switches off. The
// defaults (200 for multi-series views, 600 for a single series) are tuned
// empirically for responsive rendering on common surfaces; they are
// configuration, not universal constants, and should be adjusted per dataset
// and backend.
type ViewConfig struct {
	Width                 int    `mapstructure:"width"`
	Height                int    `mapstructure:"height"`
	DetailThreshold       int    `mapstructure:"detail_threshold"`
	SingleSeriesThreshold int    `mapstructure:"single_series_threshold"`
	SumColumn             string `mapstructure:"sum_column"`
}

// CategoriesConfig holds the startup Selection and the category → display
// style mapping consumed by the rendering surface.
type CategoriesConfig struct {
	Active []string          `mapstructure:"active"`
	Colors map[string]string `mapstructure:"colors"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("RASTERVIEW")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault("data.path", "./data/events.csv")

	v.SetDefault("view.width", 900)
	v.SetDefault("view.height", 6)
	v.SetDefault("view.detail_threshold", 200)
	v.SetDefault("view.single_series_threshold", 600)
	v.SetDefault("view.sum_column", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// DetailThresholdFor returns the detail threshold appropriate for the given
// number of selected series: the single-series value when exactly one series
// is shown, the multi-series value otherwise.
func (c *Config) DetailThresholdFor(series int) int {
	if series == 1 {
		return c.View.SingleSeriesThreshold
	}
	return c.View.DetailThreshold
}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return fmt.Errorf("data.path is required")
	}

	if c.View.Width < 1 {
		return fmt.Errorf("view.width must be at least 1")
	}
	if c.View.Height < 1 {
		return fmt.Errorf("view.height must be at least 1")
	}
	if c.View.DetailThreshold < 1 {
		return fmt.Errorf("view.detail_threshold must be at least 1")
	}
	if c.View.SingleSeriesThreshold < 1 {
		return fmt.Errorf("view.single_series_threshold must be at least 1")
	}

	if len(c.Categories.Active) == 0 {
		return fmt.Errorf("categories.active must contain at least one category")
	}
	if len(c.Categories.Active) > c.View.Height {
		return fmt.Errorf("categories.active has %d entries but view.height provides only %d bands",
			len(c.Categories.Active), c.View.Height)
	}
	seen := make(map[string]bool, len(c.Categories.Active))
	for _, cat := range c.Categories.Active {
		if cat == "" {
			return fmt.Errorf("categories.active must not contain empty names")
		}
		if seen[cat] {
			return fmt.Errorf("categories.active contains duplicate %q", cat)
		}
		seen[cat] = true
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
