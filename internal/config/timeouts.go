// Package config provides centralized timeout constants for the application.
//
// # Chat platform constraints
//
//   - Telegram: updates are fetched by long polling or pushed to a webhook;
//     the webhook response is not used for replies, so it can return at once.
//   - LINE: the webhook must be acknowledged quickly. The loading animation
//     shows for up to 60 seconds and the reply token expires soon after, so
//     event processing is capped at LineProcessing.
package config

import "time"

// Lookup timeouts
const (
	// LookupRequest bounds a single provider HTTP request, including reading
	// the body. It is fixed so every deployment degrades the same way.
	LookupRequest = 15 * time.Second
)

// Message handling timeouts
const (
	// MessageProcessing bounds the handling of one chat message: placeholder,
	// lookup and final delivery.
	MessageProcessing = 45 * time.Second

	// LineProcessing bounds async processing of one LINE event. It matches
	// the maximum loading animation duration.
	LineProcessing = 60 * time.Second

	// LineLoadingSeconds is the loading animation duration requested from LINE.
	// LINE accepts multiples of 5 between 5 and 60.
	LineLoadingSeconds = 60
)

// HTTP server timeouts
const (
	// WebhookHTTPRead is the HTTP server read timeout for webhook requests.
	// Should be short since platforms send small JSON payloads.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout.
	WebhookHTTPWrite = 65 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second
)
