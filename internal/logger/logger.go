// Package logger provides structured logging utilities for the application.
// It wraps log/slog with JSON formatting, enriches records with tracing values
// from the context and optionally ships them to Better Stack.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogbetterstack "github.com/samber/slog-betterstack"
)

// Logger is the application logger
type Logger struct {
	*slog.Logger

	async *AsyncHandler
}

// Options configures a Logger.
type Options struct {
	// Level is one of debug, info, warn, error. Anything else means info.
	Level string

	// BetterstackToken enables log shipping to Better Stack when set.
	BetterstackToken string

	Async AsyncOptions
}

// New creates a new logger instance with JSON formatting
func New(level string) *Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a new logger instance with JSON formatting writing to the provided writer
func NewWithWriter(level string, w io.Writer) *Logger {
	return NewWithOptions(w, Options{Level: level})
}

// NewWithOptions creates a logger writing JSON to w and, when a Better Stack
// token is configured, to Better Stack through an async queue.
func NewWithOptions(w io.Writer, opts Options) *Logger {
	level := ParseLevel(opts.Level)

	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	})

	var async *AsyncHandler
	if opts.BetterstackToken != "" {
		remote := slogbetterstack.Option{
			Level: level,
			Token: opts.BetterstackToken,
		}.NewBetterstackHandler()
		async = NewAsyncHandler(remote, opts.Async)
		handler = NewMultiHandler(handler, async)
	}

	return &Logger{
		Logger: slog.New(NewContextHandler(handler)),
		async:  async,
	}
}

// ParseLevel maps a LOG_LEVEL string to a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "timestamp"
	case slog.LevelKey:
		a.Key = "level"
		level := a.Value.String()
		if level == "WARN" {
			level = "warning"
		} else {
			level = strings.ToLower(level)
		}
		a.Value = slog.StringValue(level)
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

// Shutdown flushes records queued for remote shipping.
func (l *Logger) Shutdown(ctx context.Context) error {
	if l == nil || l.async == nil {
		return nil
	}
	err := l.async.Shutdown(ctx)
	if dropped := l.async.Dropped(); dropped > 0 {
		fmt.Fprintf(os.Stderr, "logger: %d records dropped by full queue\n", dropped)
	}
	return err
}

// WithModule creates a new entry with module field
func (l *Logger) WithModule(module string) *Logger {
	return l.with("module", module)
}

// WithRequestID creates a new entry with request ID field
func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.with("request_id", requestID)
}

// WithError creates a new entry with error field
func (l *Logger) WithError(err error) *Logger {
	return l.with("error", err)
}

// WithField creates a new entry with a single field
func (l *Logger) WithField(key string, value any) *Logger {
	return l.with(key, value)
}

// WithFields creates a new entry with multiple fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return l.with(args...)
}

func (l *Logger) with(args ...any) *Logger {
	return &Logger{Logger: l.With(args...), async: l.async}
}

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted message at warn level.
func (l *Logger) Warnf(format string, args ...any) {
	l.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.Debug(fmt.Sprintf(format, args...))
}
