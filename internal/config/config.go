// Package config provides application configuration management.
// It loads settings from environment variables (and an optional .env file)
// and validates them before anything starts.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	apperrors "github.com/garyellow/phoneinfo-bot/internal/errors"
	"github.com/garyellow/phoneinfo-bot/internal/lookup"
	"github.com/joho/godotenv"
)

// Default attribution names per provider profile.
var defaultProviderNames = map[string]string{
	lookup.ProfileTerm: "Phone Lookup API",
	lookup.ProfilePath: "Phone Info API",
}

// Config holds all application configuration
type Config struct {
	// Telegram Bot Configuration
	TelegramToken         string
	TelegramWebhookURL    string // empty = long polling
	TelegramWebhookSecret string

	// LINE Bot Configuration
	LineChannelToken  string
	LineChannelSecret string

	// Lookup Provider Configuration
	LookupProvider     string // lookup.ProfileTerm or lookup.ProfilePath
	LookupBaseURL      string
	LookupAPIKey       string
	LookupProviderName string // attribution footer name

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Error tracking
	SentryToken       string
	SentryHost        string
	SentryEnvironment string
	SentrySampleRate  float64

	// Log shipping
	BetterStackToken string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:         getEnv(EnvTelegramBotToken, ""),
		TelegramWebhookURL:    getEnv(EnvTelegramWebhookURL, ""),
		TelegramWebhookSecret: getEnv(EnvTelegramWebhookSecret, ""),

		LineChannelToken:  getEnv(EnvLineChannelAccessToken, ""),
		LineChannelSecret: getEnv(EnvLineChannelSecret, ""),

		LookupProvider: getEnv(EnvLookupProvider, lookup.ProfileTerm),
		LookupBaseURL:  getEnv(EnvLookupBaseURL, ""),
		LookupAPIKey:   getEnv(EnvLookupAPIKey, ""),

		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),

		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		BetterStackToken: getEnv(EnvBetterStackToken, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),
	}
	cfg.LookupProviderName = getEnv(EnvLookupProviderName, defaultProviderNames[cfg.LookupProvider])

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if !c.HasTelegram() && !c.HasLine() {
		errs = append(errs, fmt.Errorf("%w: set %s or %s and %s",
			apperrors.ErrNoPlatform, EnvTelegramBotToken, EnvLineChannelAccessToken, EnvLineChannelSecret))
	}
	if (c.LineChannelToken == "") != (c.LineChannelSecret == "") {
		errs = append(errs, apperrors.NewValidationError(EnvLineChannelSecret,
			"LINE_CHANNEL_ACCESS_TOKEN and LINE_CHANNEL_SECRET must be set together"))
	}
	if c.TelegramWebhookURL != "" {
		if c.TelegramToken == "" {
			errs = append(errs, apperrors.NewValidationError(EnvTelegramWebhookURL, "requires TELEGRAM_BOT_TOKEN"))
		} else if u, err := url.Parse(c.TelegramWebhookURL); err != nil || u.Scheme != "https" || u.Host == "" {
			errs = append(errs, apperrors.NewValidationError(EnvTelegramWebhookURL, "must be an absolute https URL"))
		}
	}

	switch c.LookupProvider {
	case lookup.ProfileTerm:
		if c.LookupAPIKey == "" {
			errs = append(errs, apperrors.NewValidationError(EnvLookupAPIKey, "is required for the term provider"))
		}
	case lookup.ProfilePath:
	default:
		errs = append(errs, apperrors.NewValidationError(EnvLookupProvider,
			fmt.Sprintf("must be %q or %q, got %q", lookup.ProfileTerm, lookup.ProfilePath, c.LookupProvider)))
	}
	if c.LookupBaseURL == "" {
		errs = append(errs, apperrors.NewValidationError(EnvLookupBaseURL, "is required"))
	} else if u, err := url.Parse(c.LookupBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, apperrors.NewValidationError(EnvLookupBaseURL, "must be an absolute URL"))
	}
	if c.LookupProviderName == "" {
		errs = append(errs, apperrors.NewValidationError(EnvLookupProviderName, "is required"))
	}

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.ShutdownTimeout))
	}
	if c.SentryToken != "" && c.SentryHost == "" {
		errs = append(errs, apperrors.NewValidationError(EnvSentryHost, "is required when SENTRY_TOKEN is set"))
	}

	return errors.Join(errs...)
}

// HasTelegram reports whether the Telegram transport is configured.
func (c *Config) HasTelegram() bool {
	return c.TelegramToken != ""
}

// HasLine reports whether the LINE transport is configured.
func (c *Config) HasLine() bool {
	return c.LineChannelToken != "" && c.LineChannelSecret != ""
}

// MetricsAuthEnabled reports whether /metrics requires Basic Auth.
func (c *Config) MetricsAuthEnabled() bool {
	return c.MetricsPassword != ""
}

// LookupConfig returns the provider settings with the fixed request timeout.
func (c *Config) LookupConfig() lookup.Config {
	return lookup.Config{
		Profile: c.LookupProvider,
		BaseURL: c.LookupBaseURL,
		APIKey:  c.LookupAPIKey,
		Timeout: LookupRequest,
	}
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
