// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
}

// LogConfig represents logger configuration.
type LogConfig struct {
	Output string `yaml:"output" default:"stderr"`
	Level  string `yaml:"level" default:"info"`
	File   string `yaml:"file"`
}

// AnalysisConfig represents the engine parameters.
type AnalysisConfig struct {
	TopN              int    `yaml:"top_n" default:"10" validate:"gt=0"`
	HistoryDays       int    `yaml:"history_days" default:"365" validate:"gt=0"`
	LastDate          string `yaml:"last_date" validate:"omitempty,datetime=2006-01-02"`
	SessionGapMinutes int    `yaml:"session_gap_minutes" default:"5" validate:"gt=0"`
	StreakGapMinutes  int    `yaml:"streak_gap_minutes" default:"30" validate:"gt=0"`
	CoListenBy        string `yaml:"co_listen_by" default:"session" validate:"oneof=session day"`
}

// EnrichmentConfig represents genre enrichment configuration.
type EnrichmentConfig struct {
	Enabled        bool           `yaml:"enabled"`
	TimeoutSeconds int            `yaml:"timeout_seconds" default:"60" validate:"gt=0"`
	Provider       ProviderConfig `yaml:"provider"`
}

// ProviderConfig represents a genre provider configuration.
type ProviderConfig struct {
	Type     string         `yaml:"type" default:"spotify"`
	Settings map[string]any `yaml:"settings"`
}

// Default returns the configuration with all defaults applied.
func Default() (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	cfg.overrideFromEnv()
	return &cfg, nil
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for credentials.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	clientID := os.Getenv("SPOTIFY_CLIENT_ID")
	clientSecret := os.Getenv("SPOTIFY_CLIENT_SECRET")
	if clientID == "" && clientSecret == "" {
		return
	}

	if c.Enrichment.Provider.Settings == nil {
		c.Enrichment.Provider.Settings = make(map[string]any)
	}
	if clientID != "" {
		c.Enrichment.Provider.Settings["client_id"] = clientID
	}
	if clientSecret != "" {
		c.Enrichment.Provider.Settings["client_secret"] = clientSecret
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// ParseLastDate parses the optional window end date.
// Returns nil if no date is configured.
func (c *Config) ParseLastDate() (*time.Time, error) {
	if c.Analysis.LastDate == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, c.Analysis.LastDate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse last_date")
	}
	return &t, nil
}

// SessionGap returns the session gap threshold as a duration.
func (c *Config) SessionGap() time.Duration {
	return time.Duration(c.Analysis.SessionGapMinutes) * time.Minute
}

// StreakGap returns the streak gap threshold as a duration.
func (c *Config) StreakGap() time.Duration {
	return time.Duration(c.Analysis.StreakGapMinutes) * time.Minute
}

// EnrichmentTimeout returns the overall enrichment deadline.
func (c *Config) EnrichmentTimeout() time.Duration {
	return time.Duration(c.Enrichment.TimeoutSeconds) * time.Second
}
