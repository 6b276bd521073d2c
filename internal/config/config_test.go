package config

import (
	"testing"
	"time"

	apperrors "github.com/garyellow/phoneinfo-bot/internal/errors"
	"github.com/garyellow/phoneinfo-bot/internal/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	EnvTelegramBotToken, EnvTelegramWebhookURL, EnvTelegramWebhookSecret,
	EnvLineChannelAccessToken, EnvLineChannelSecret,
	EnvLookupProvider, EnvLookupBaseURL, EnvLookupAPIKey, EnvLookupProviderName,
	EnvPort, EnvLogLevel, EnvShutdownTimeout,
	EnvSentryToken, EnvSentryHost, EnvSentryEnvironment, EnvSentrySampleRate,
	EnvBetterStackToken, EnvMetricsUsername, EnvMetricsPassword,
}

// setEnv clears every known key, then applies env.
func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{
		EnvTelegramBotToken: "123:abc",
		EnvLookupBaseURL:    "https://api.example.com/lookup",
		EnvLookupAPIKey:     "secret",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.HasTelegram())
	assert.False(t, cfg.HasLine())
	assert.Equal(t, lookup.ProfileTerm, cfg.LookupProvider)
	assert.Equal(t, "Phone Lookup API", cfg.LookupProviderName)
	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "prometheus", cfg.MetricsUsername)
	assert.False(t, cfg.MetricsAuthEnabled())
	assert.InDelta(t, 1.0, cfg.SentrySampleRate, 0)
}

func TestLoad_PathProfile(t *testing.T) {
	setEnv(t, map[string]string{
		EnvLineChannelAccessToken: "token",
		EnvLineChannelSecret:      "secret",
		EnvLookupProvider:         lookup.ProfilePath,
		EnvLookupBaseURL:          "https://api.example.com/lookup/",
		EnvShutdownTimeout:        "5s",
		EnvMetricsPassword:        "pw",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.HasLine())
	assert.Equal(t, "Phone Info API", cfg.LookupProviderName)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.MetricsAuthEnabled())

	lc := cfg.LookupConfig()
	assert.Equal(t, lookup.ProfilePath, lc.Profile)
	assert.Equal(t, LookupRequest, lc.Timeout)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	setEnv(t, map[string]string{
		EnvTelegramBotToken:   "123:abc",
		EnvLookupProvider:     lookup.ProfilePath,
		EnvLookupBaseURL:      "https://api.example.com/",
		EnvShutdownTimeout:    "soon",
		EnvLookupProviderName: "Custom",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "Custom", cfg.LookupProviderName)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			TelegramToken:      "123:abc",
			LookupProvider:     lookup.ProfileTerm,
			LookupBaseURL:      "https://api.example.com/",
			LookupAPIKey:       "key",
			LookupProviderName: "Phone Lookup API",
			Port:               "10000",
			ShutdownTimeout:    time.Second,
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{"valid", func(*Config) {}, ""},
		{"no platform", func(c *Config) { c.TelegramToken = "" }, "no chat platform configured"},
		{"line token only", func(c *Config) { c.LineChannelToken = "t" }, "must be set together"},
		{"webhook without token", func(c *Config) {
			c.TelegramToken = ""
			c.LineChannelToken, c.LineChannelSecret = "t", "s"
			c.TelegramWebhookURL = "https://bot.example.com/webhook/telegram"
		}, "requires TELEGRAM_BOT_TOKEN"},
		{"webhook over http", func(c *Config) { c.TelegramWebhookURL = "http://bot.example.com/hook" }, "absolute https URL"},
		{"term without key", func(c *Config) { c.LookupAPIKey = "" }, "LOOKUP_API_KEY: is required for the term provider"},
		{"path without key", func(c *Config) { c.LookupProvider, c.LookupAPIKey = lookup.ProfilePath, "" }, ""},
		{"unknown provider", func(c *Config) { c.LookupProvider = "soap" }, `got "soap"`},
		{"missing base URL", func(c *Config) { c.LookupBaseURL = "" }, "LOOKUP_BASE_URL: is required"},
		{"relative base URL", func(c *Config) { c.LookupBaseURL = "/lookup" }, "must be an absolute URL"},
		{"missing port", func(c *Config) { c.Port = "" }, "PORT is required"},
		{"zero shutdown", func(c *Config) { c.ShutdownTimeout = 0 }, "SHUTDOWN_TIMEOUT must be positive"},
		{"sentry without host", func(c *Config) { c.SentryToken = "tok" }, "SENTRY_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)

	assert.ErrorIs(t, err, apperrors.ErrNoPlatform)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "PORT is required")
}
