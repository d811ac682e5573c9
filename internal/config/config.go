// Package config loads the application configuration from YAML plus
// environment overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/sourcinglab/sourcingbot/core/config"
	coredatabase "github.com/sourcinglab/sourcingbot/core/database"
)

// SessionConfig tunes the in-memory dialogue session store.
type SessionConfig struct {
	TTLMinutes           int `yaml:"ttl_minutes" envconfig:"SESSION_TTL_MINUTES"`
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes" envconfig:"SESSION_SWEEP_INTERVAL_MINUTES"`
}

// TTL returns the session time to live with a 30 minute default.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// SweepInterval returns the janitor period with a 5 minute default.
func (s SessionConfig) SweepInterval() time.Duration {
	if s.SweepIntervalMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(s.SweepIntervalMinutes) * time.Minute
}

// NotifyConfig tunes admin notification delivery.
type NotifyConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds" envconfig:"NOTIFY_TIMEOUT_SECONDS"`
}

// Timeout returns the upper bound on waiting for a notification send.
func (n NotifyConfig) Timeout() time.Duration {
	if n.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// Config is the full application configuration.
type Config struct {
	Telegram  coreconfig.TelegramConfig  `yaml:"telegram"`
	Webhook   coreconfig.WebhookConfig   `yaml:"webhook"`
	Logging   coreconfig.LoggingConfig   `yaml:"logging"`
	RateLimit coreconfig.RateLimitConfig `yaml:"rate_limit"`
	Database  coredatabase.Config        `yaml:"database"`
	Session   SessionConfig              `yaml:"session"`
	Notify    NotifyConfig               `yaml:"notify"`
}

// Load reads the config file and applies environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	core := cfg.Core()
	if err := coreconfig.Normalize(core); err != nil {
		return nil, err
	}
	cfg.Telegram = core.Telegram
	cfg.RateLimit = core.RateLimit

	return &cfg, nil
}

// Core projects the shared sections into the core config shape.
func (c *Config) Core() *coreconfig.Config {
	return &coreconfig.Config{
		Telegram:  c.Telegram,
		Webhook:   c.Webhook,
		Logging:   c.Logging,
		RateLimit: c.RateLimit,
	}
}
