package logger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/garyellow/phoneinfo-bot/internal/ctxutil"
)

// ContextHandler wraps a slog.Handler and adds the tracing values stored by
// ctxutil (platform, user_id, chat_id, request_id) to every record.
type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler creates a new ContextHandler that wraps the provided handler.
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{handler: handler}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if platform := ctxutil.GetPlatform(ctx); platform != "" {
		r.AddAttrs(slog.String("platform", platform))
	}
	if userID := ctxutil.GetUserID(ctx); userID != "" {
		r.AddAttrs(slog.String("user_id", userID))
	}
	if chatID := ctxutil.GetChatID(ctx); chatID != "" {
		r.AddAttrs(slog.String("chat_id", chatID))
	}
	if requestID, ok := ctxutil.GetRequestID(ctx); ok && requestID != "" {
		r.AddAttrs(slog.String("request_id", requestID))
	}
	return h.handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// MultiHandler sends each record to every enabled handler.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler creates a MultiHandler; nil handlers are skipped.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	m := &MultiHandler{}
	for _, h := range handlers {
		if h != nil {
			m.handlers = append(m.handlers, h)
		}
	}
	return m
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) each(fn func(slog.Handler) slog.Handler) *MultiHandler {
	next := &MultiHandler{handlers: make([]slog.Handler, len(m.handlers))}
	for i, h := range m.handlers {
		next.handlers[i] = fn(h)
	}
	return next
}
