package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultQueueSize    = 1024
	defaultFlushTimeout = 5 * time.Second
)

// AsyncOptions configures the queue in front of a slow handler.
type AsyncOptions struct {
	QueueSize    int
	FlushTimeout time.Duration
}

type queuedRecord struct {
	ctx     context.Context
	record  slog.Record
	handler slog.Handler
}

// queue is shared by an AsyncHandler and every handler derived from it.
type queue struct {
	records      chan queuedRecord
	flushTimeout time.Duration
	closed       atomic.Bool
	dropped      atomic.Uint64
	done         sync.WaitGroup
}

func newQueue(opts AsyncOptions) *queue {
	size := opts.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	flush := opts.FlushTimeout
	if flush <= 0 {
		flush = defaultFlushTimeout
	}

	q := &queue{
		records:      make(chan queuedRecord, size),
		flushTimeout: flush,
	}
	q.done.Go(func() {
		for rec := range q.records {
			_ = rec.handler.Handle(rec.ctx, rec.record)
		}
	})
	return q
}

// push never blocks: a full queue drops the record.
func (q *queue) push(rec queuedRecord) {
	if q.closed.Load() {
		q.dropped.Add(1)
		return
	}
	select {
	case q.records <- rec:
	default:
		q.dropped.Add(1)
	}
}

func (q *queue) close(ctx context.Context) error {
	if q.closed.Swap(true) {
		return nil
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.flushTimeout)
		defer cancel()
	}
	close(q.records)

	drained := make(chan struct{})
	go func() {
		q.done.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AsyncHandler hands records to a background goroutine so remote log
// shipping never blocks message handling.
type AsyncHandler struct {
	q       *queue
	handler slog.Handler
}

// NewAsyncHandler wraps handler with a bounded queue.
func NewAsyncHandler(handler slog.Handler, opts AsyncOptions) *AsyncHandler {
	return &AsyncHandler{q: newQueue(opts), handler: handler}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle enqueues a clone of the record. The context is detached from
// cancellation because the record is handled after the caller returns.
func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	h.q.push(queuedRecord{ctx: context.WithoutCancel(ctx), record: r.Clone(), handler: h.handler})
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{q: h.q, handler: h.handler.WithAttrs(attrs)}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{q: h.q, handler: h.handler.WithGroup(name)}
}

// Dropped returns how many records were discarded because the queue was full
// or already closed.
func (h *AsyncHandler) Dropped() uint64 {
	return h.q.dropped.Load()
}

// Shutdown stops accepting records and waits for queued ones to be handled.
// Without a deadline on ctx it waits at most the configured flush timeout.
func (h *AsyncHandler) Shutdown(ctx context.Context) error {
	if h == nil || h.q == nil {
		return nil
	}
	return h.q.close(ctx)
}
