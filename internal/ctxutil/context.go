// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	platformKey  contextKey = "ctxutil.platform"
	userIDKey    contextKey = "ctxutil.userID"
	chatIDKey    contextKey = "ctxutil.chatID"
	requestIDKey contextKey = "ctxutil.requestID"
)

// WithPlatform adds the chat platform name ("telegram", "line") to the context.
func WithPlatform(ctx context.Context, platform string) context.Context {
	return context.WithValue(ctx, platformKey, platform)
}

// GetPlatform retrieves the chat platform name, or an empty string.
func GetPlatform(ctx context.Context) string {
	return stringValue(ctx, platformKey)
}

// WithUserID adds the sender's platform user ID to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID retrieves the user ID from the context.
// Returns the user ID if found, empty string otherwise.
func GetUserID(ctx context.Context) string {
	return stringValue(ctx, userIDKey)
}

// WithChatID adds a chat ID to the context.
// Chat ID identifies the conversation the reply goes to.
func WithChatID(ctx context.Context, chatID string) context.Context {
	return context.WithValue(ctx, chatIDKey, chatID)
}

// GetChatID retrieves the chat ID from the context.
// Returns the chat ID if found, empty string otherwise.
func GetChatID(ctx context.Context) string {
	return stringValue(ctx, chatIDKey)
}

// WithRequestID adds a request ID to the context for tracing.
// A request ID is generated per incoming update for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID and true if found, empty string and false otherwise.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}

// PreserveTracing creates a detached context that preserves tracing values.
// The new context is independent of the parent's cancellation and deadlines.
//
// Use for async work that must outlive the request that started it, such as
// LINE event handling that continues after the webhook response is sent.
func PreserveTracing(ctx context.Context) context.Context {
	newCtx := context.Background()

	if platform := GetPlatform(ctx); platform != "" {
		newCtx = WithPlatform(newCtx, platform)
	}
	if userID := GetUserID(ctx); userID != "" {
		newCtx = WithUserID(newCtx, userID)
	}
	if chatID := GetChatID(ctx); chatID != "" {
		newCtx = WithChatID(newCtx, chatID)
	}
	if requestID, ok := GetRequestID(ctx); ok && requestID != "" {
		newCtx = WithRequestID(newCtx, requestID)
	}

	return newCtx
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
