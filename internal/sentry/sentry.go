// Package sentry initializes error tracking through the Sentry SDK. Events are
// sent to a Sentry-compatible ingest host (Better Stack Errors in production).
package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/garyellow/phoneinfo-bot/internal/ctxutil"
	"github.com/getsentry/sentry-go"
)

// Config holds error tracking configuration.
type Config struct {
	// Token is the ingest application token. Empty disables error tracking.
	Token string

	// Host is the ingest host (e.g., "errors.betterstack.com").
	Host string

	// Environment identifies the deployment environment (e.g., "production", "staging").
	Environment string

	// Release identifies the application release version.
	Release string

	// SampleRate controls error sampling (0.0-1.0, default 1.0 = 100%).
	SampleRate float64

	// Debug enables Sentry SDK debug logging.
	Debug bool
}

// DSN returns https://TOKEN@HOST/1. The project ID is required by the SDK
// and ignored by the ingest host.
func (c Config) DSN() string {
	return fmt.Sprintf("https://%s@%s/1", c.Token, c.Host)
}

// Initialize sets up the Sentry SDK.
// If Token is empty, error tracking stays disabled and nil is returned.
func Initialize(cfg Config) error {
	if cfg.Token == "" {
		return nil
	}
	if cfg.Host == "" {
		return fmt.Errorf("sentry host is required when token is provided")
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 || sampleRate > 1 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN(),
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

// Flush waits for buffered events to be sent to the server.
// Returns true if all events were sent within the timeout.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled returns true if Sentry is initialized and active.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// CaptureExceptionWithContext captures err on the hub bound to ctx (or the
// global hub) and tags it with the tracing values stored in ctx.
func CaptureExceptionWithContext(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if platform := ctxutil.GetPlatform(ctx); platform != "" {
			scope.SetTag("platform", platform)
		}
		if chatID := ctxutil.GetChatID(ctx); chatID != "" {
			scope.SetTag("chat_id", chatID)
		}
		if requestID, ok := ctxutil.GetRequestID(ctx); ok && requestID != "" {
			scope.SetTag("request_id", requestID)
		}
		hub.CaptureException(err)
	})
}
