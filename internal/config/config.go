// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads server configuration from LANDING_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/landing-cms/internal/scheduler"
	"github.com/olegiv/landing-cms/internal/util"
)

// MinWebhookSecretLength is the minimum length of the webhook signing secret.
const MinWebhookSecretLength = 16

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"LANDING_DB_PATH" envDefault:"./data/landing.db"`
	ServerHost string `env:"LANDING_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"LANDING_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"LANDING_ENV" envDefault:"development"`
	LogLevel   string `env:"LANDING_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL       string `env:"LANDING_REDIS_URL"`                          // Optional Redis URL for a shared render cache
	CachePrefix    string `env:"LANDING_CACHE_PREFIX" envDefault:"landing:"` // Redis key prefix
	RenderCacheTTL int    `env:"LANDING_RENDER_CACHE_TTL" envDefault:"300"`  // Rendered page TTL in seconds
	CacheMaxSize   int    `env:"LANDING_CACHE_MAX_SIZE" envDefault:"10000"`  // Max memory cache entries

	// Notifications
	NotifyWorkers    int    `env:"LANDING_NOTIFY_WORKERS" envDefault:"3"`
	NotifyQueueSize  int    `env:"LANDING_NOTIFY_QUEUE_SIZE" envDefault:"100"`
	TelegramBotToken string `env:"LANDING_TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `env:"LANDING_TELEGRAM_CHAT_ID"`
	WebhookURL       string `env:"LANDING_WEBHOOK_URL"`
	WebhookSecret    string `env:"LANDING_WEBHOOK_SECRET"`
	PublicBaseURL    string `env:"LANDING_PUBLIC_BASE_URL"` // Used for links in notifications

	// Public page assets
	StylesheetURL string `env:"LANDING_STYLESHEET_URL"`
	ScriptURL     string `env:"LANDING_SCRIPT_URL"`

	// Public lead submission rate limit per client IP
	LeadRateLimit float64 `env:"LANDING_LEAD_RATE_LIMIT" envDefault:"0.5"` // Requests per second
	LeadRateBurst int     `env:"LANDING_LEAD_RATE_BURST" envDefault:"5"`

	// Activity log retention in days (0 keeps everything)
	ActivityRetentionDays int    `env:"LANDING_ACTIVITY_RETENTION_DAYS" envDefault:"90"`
	ActivityPruneSchedule string `env:"LANDING_ACTIVITY_PRUNE_SCHEDULE" envDefault:"@daily"` // Cron expression

	// Seeding configuration
	DoSeed bool `env:"LANDING_SEED" envDefault:"false"` // Seed default block templates
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// TelegramEnabled returns true if both the bot token and chat id are set.
func (c Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// WebhookEnabled returns true if a webhook URL is configured.
func (c Config) WebhookEnabled() bool {
	return c.WebhookURL != ""
}

// RenderTTL returns the render cache TTL.
func (c Config) RenderTTL() time.Duration {
	return time.Duration(c.RenderCacheTTL) * time.Second
}

// ActivityRetention returns how long activity log entries are kept.
func (c Config) ActivityRetention() time.Duration {
	return time.Duration(c.ActivityRetentionDays) * 24 * time.Hour
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom parses configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and settings that depend on each other.
func (c *Config) Validate() error {
	var errs []error

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("LANDING_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("LANDING_LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if c.RenderCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("LANDING_RENDER_CACHE_TTL must be positive, got %d", c.RenderCacheTTL))
	}
	if c.NotifyWorkers < 1 {
		errs = append(errs, fmt.Errorf("LANDING_NOTIFY_WORKERS must be at least 1, got %d", c.NotifyWorkers))
	}
	if c.NotifyQueueSize < 1 {
		errs = append(errs, fmt.Errorf("LANDING_NOTIFY_QUEUE_SIZE must be at least 1, got %d", c.NotifyQueueSize))
	}
	if c.LeadRateLimit < 0 || c.LeadRateBurst < 0 {
		errs = append(errs, errors.New("LANDING_LEAD_RATE_LIMIT and LANDING_LEAD_RATE_BURST must not be negative"))
	}
	if c.ActivityRetentionDays < 0 {
		errs = append(errs, fmt.Errorf("LANDING_ACTIVITY_RETENTION_DAYS must not be negative, got %d", c.ActivityRetentionDays))
	}
	if err := scheduler.ValidateSchedule(c.ActivityPruneSchedule); err != nil {
		errs = append(errs, fmt.Errorf("LANDING_ACTIVITY_PRUNE_SCHEDULE: %w", err))
	}

	if (c.TelegramBotToken == "") != (c.TelegramChatID == "") {
		errs = append(errs, errors.New("LANDING_TELEGRAM_BOT_TOKEN and LANDING_TELEGRAM_CHAT_ID must be set together"))
	}

	if c.WebhookURL != "" {
		if err := util.ValidateOutboundURL(c.WebhookURL); err != nil {
			errs = append(errs, fmt.Errorf("LANDING_WEBHOOK_URL: %w", err))
		}
		if len(c.WebhookSecret) < MinWebhookSecretLength {
			errs = append(errs, fmt.Errorf("LANDING_WEBHOOK_SECRET must be at least %d bytes when a webhook URL is set; "+
				"generate one with: openssl rand -hex 32", MinWebhookSecretLength))
		}
	}

	return errors.Join(errs...)
}
