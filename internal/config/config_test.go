package config

import (
	"os"
	"testing"
)

func TestLoadAndValidate(t *testing.T) {
	content := `
data:
  path: "./testdata/trades.csv"

view:
  width: 600
  height: 4
  detail_threshold: 200
  single_series_threshold: 600
  sum_column: "size"

categories:
  active:
    - AAPL
    - GOOG
  colors:
    AAPL: "#1f77b4"
    GOOG: "#2ca02c"

logging:
  level: "info"
  format: "json"
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.View.Width != 600 {
		t.Errorf("Unexpected width: %d", cfg.View.Width)
	}
	if cfg.View.SumColumn != "size" {
		t.Errorf("Unexpected sum column: %s", cfg.View.SumColumn)
	}
	if len(cfg.Categories.Active) != 2 {
		t.Errorf("Expected 2 active categories, got %d", len(cfg.Categories.Active))
	}
	if cfg.Categories.Colors["AAPL"] != "#1f77b4" {
		t.Errorf("Unexpected color mapping: %v", cfg.Categories.Colors)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestDefaults(t *testing.T) {
	content := `
data:
  path: "./data/events.csv"
categories:
  active:
    - A
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.View.DetailThreshold != 200 {
		t.Errorf("Expected default detail_threshold 200, got %d", cfg.View.DetailThreshold)
	}
	if cfg.View.SingleSeriesThreshold != 600 {
		t.Errorf("Expected default single_series_threshold 600, got %d", cfg.View.SingleSeriesThreshold)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default level info, got %s", cfg.Logging.Level)
	}
}

func TestDetailThresholdFor(t *testing.T) {
	cfg := &Config{View: ViewConfig{DetailThreshold: 200, SingleSeriesThreshold: 600}}

	if got := cfg.DetailThresholdFor(1); got != 600 {
		t.Errorf("Single series threshold = %d, want 600", got)
	}
	if got := cfg.DetailThresholdFor(3); got != 200 {
		t.Errorf("Multi series threshold = %d, want 200", got)
	}
}

func TestValidateErrors(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Data: DataConfig{Path: "./data/events.csv"},
			View: ViewConfig{
				Width:                 900,
				Height:                6,
				DetailThreshold:       200,
				SingleSeriesThreshold: 600,
			},
			Categories: CategoriesConfig{Active: []string{"A", "B"}},
			Logging:    LoggingConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing data path", func(c *Config) { c.Data.Path = "" }},
		{"zero width", func(c *Config) { c.View.Width = 0 }},
		{"zero height", func(c *Config) { c.View.Height = 0 }},
		{"zero detail threshold", func(c *Config) { c.View.DetailThreshold = 0 }},
		{"no active categories", func(c *Config) { c.Categories.Active = nil }},
		{"duplicate category", func(c *Config) { c.Categories.Active = []string{"A", "A"} }},
		{"more categories than bands", func(c *Config) {
			c.Categories.Active = []string{"A", "B", "C"}
			c.View.Height = 2
		}},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("Baseline config should validate: %v", err)
	}
}
