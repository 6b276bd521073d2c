package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Telegram
	EnvTelegramBotToken      = "TELEGRAM_BOT_TOKEN"
	EnvTelegramWebhookURL    = "TELEGRAM_WEBHOOK_URL"
	EnvTelegramWebhookSecret = "TELEGRAM_WEBHOOK_SECRET"

	// LINE
	EnvLineChannelAccessToken = "LINE_CHANNEL_ACCESS_TOKEN"
	EnvLineChannelSecret      = "LINE_CHANNEL_SECRET"

	// Lookup provider
	EnvLookupProvider     = "LOOKUP_PROVIDER"
	EnvLookupBaseURL      = "LOOKUP_BASE_URL"
	EnvLookupAPIKey       = "LOOKUP_API_KEY"
	EnvLookupProviderName = "LOOKUP_PROVIDER_NAME"

	// Server
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	// Sentry
	EnvSentryToken       = "SENTRY_TOKEN"
	EnvSentryHost        = "SENTRY_HOST"
	EnvSentryEnvironment = "SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "SENTRY_SAMPLE_RATE"

	// Better Stack
	EnvBetterStackToken = "BETTERSTACK_TOKEN"

	// Metrics Auth
	EnvMetricsUsername = "METRICS_USERNAME"
	EnvMetricsPassword = "METRICS_PASSWORD"
)
