package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/garyellow/phoneinfo-bot/internal/ctxutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWithWriter_JSONKeys(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.Warn("careful")
	log.Debugf("value=%d", 42)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "warning", lines[0]["level"])
	assert.Equal(t, "careful", lines[0]["message"])
	assert.Contains(t, lines[0], "timestamp")
	assert.NotContains(t, lines[0], "msg")

	assert.Equal(t, "debug", lines[1]["level"])
	assert.Equal(t, "value=42", lines[1]["message"])
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("error", &buf)

	log.Info("hidden")
	log.Errorf("shown %s", "here")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown here", lines[0]["message"])
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf).
		WithModule("lookup").
		WithRequestID("req-9").
		WithError(errors.New("boom")).
		WithFields(map[string]any{"provider": "term"})

	log.Info("done")

	line := decodeLines(t, &buf)[0]
	assert.Equal(t, "lookup", line["module"])
	assert.Equal(t, "req-9", line["request_id"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "term", line["provider"])
}

func TestContextHandler_AddsTracingValues(t *testing.T) {
	tests := []struct {
		name string
		ctx  func(context.Context) context.Context
		want map[string]string
		skip []string
	}{
		{
			name: "all values",
			ctx: func(ctx context.Context) context.Context {
				ctx = ctxutil.WithPlatform(ctx, "telegram")
				ctx = ctxutil.WithUserID(ctx, "42")
				ctx = ctxutil.WithChatID(ctx, "-100")
				return ctxutil.WithRequestID(ctx, "req-1")
			},
			want: map[string]string{"platform": "telegram", "user_id": "42", "chat_id": "-100", "request_id": "req-1"},
		},
		{
			name: "empty values skipped",
			ctx: func(ctx context.Context) context.Context {
				ctx = ctxutil.WithUserID(ctx, "")
				return ctxutil.WithChatID(ctx, "C1")
			},
			want: map[string]string{"chat_id": "C1"},
			skip: []string{"user_id", "platform", "request_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter("info", &buf)

			log.InfoContext(tt.ctx(context.Background()), "hello")

			line := decodeLines(t, &buf)[0]
			for k, v := range tt.want {
				assert.Equal(t, v, line[k], k)
			}
			for _, k := range tt.skip {
				assert.NotContains(t, line, k)
			}
		})
	}
}

type recordingHandler struct {
	mu      sync.Mutex
	level   slog.Level
	records []slog.Record
	delay   time.Duration
	err     error
}

func (h *recordingHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	time.Sleep(h.delay)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return h.err
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

func TestMultiHandler(t *testing.T) {
	debug := &recordingHandler{level: slog.LevelDebug}
	errOnly := &recordingHandler{level: slog.LevelError, err: errors.New("sink down")}
	m := NewMultiHandler(debug, nil, errOnly)

	assert.True(t, m.Enabled(context.Background(), slog.LevelDebug))

	info := slog.NewRecord(time.Now(), slog.LevelInfo, "info", 0)
	require.NoError(t, m.Handle(context.Background(), info))

	bad := slog.NewRecord(time.Now(), slog.LevelError, "bad", 0)
	assert.ErrorContains(t, m.Handle(context.Background(), bad), "sink down")

	assert.Equal(t, 2, debug.count())
	assert.Equal(t, 1, errOnly.count())
}

func TestAsyncHandler_FlushOnShutdown(t *testing.T) {
	inner := &recordingHandler{level: slog.LevelDebug, delay: time.Millisecond}
	h := NewAsyncHandler(inner, AsyncOptions{QueueSize: 16})
	log := slog.New(h.WithAttrs([]slog.Attr{slog.String("k", "v")}))

	for range 5 {
		log.Info("queued")
	}

	require.NoError(t, h.Shutdown(context.Background()))
	assert.Equal(t, 5, inner.count())
	assert.Zero(t, h.Dropped())

	log.Info("after shutdown")
	assert.Equal(t, uint64(1), h.Dropped())
	assert.NoError(t, h.Shutdown(context.Background()), "second shutdown is a no-op")
}

func TestAsyncHandler_ShutdownTimeout(t *testing.T) {
	inner := &recordingHandler{level: slog.LevelDebug, delay: 200 * time.Millisecond}
	h := NewAsyncHandler(inner, AsyncOptions{QueueSize: 4})
	slog.New(h).Info("slow")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, h.Shutdown(ctx), context.DeadlineExceeded)
}

func TestLogger_ShutdownWithoutRemote(t *testing.T) {
	assert.NoError(t, New("info").Shutdown(context.Background()))

	var nilLogger *Logger
	assert.NoError(t, nilLogger.Shutdown(context.Background()))
}
