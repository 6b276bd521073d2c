package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garyellow/phoneinfo-bot/internal/ctxutil"
	apperrors "github.com/garyellow/phoneinfo-bot/internal/errors"
	"github.com/garyellow/phoneinfo-bot/internal/logger"
	"github.com/garyellow/phoneinfo-bot/internal/lookup"
	"github.com/garyellow/phoneinfo-bot/internal/metrics"
	"github.com/garyellow/phoneinfo-bot/internal/phone"
	"github.com/garyellow/phoneinfo-bot/internal/report"
	"github.com/garyellow/phoneinfo-bot/internal/sentry"
)

// Message kinds used as metric labels.
const (
	kindLookup   = "lookup"
	kindGuidance = "guidance"
	kindStart    = "start"
	kindHelp     = "help"
	kindApology  = "apology"
)

// Config holds the dependencies of a Handler.
type Config struct {
	Provider     lookup.Provider
	Profile      string // metric label for the provider
	ProviderName string // attribution footer
	Logger       *logger.Logger
	Metrics      *metrics.Metrics

	// Timeout bounds the handling of one message. Zero means no bound.
	Timeout time.Duration
}

// Handler turns a chat message into a phone number report.
// It is safe for concurrent use.
type Handler struct {
	provider     lookup.Provider
	profile      string
	providerName string
	logger       *logger.Logger
	metrics      *metrics.Metrics
	timeout      time.Duration
}

// NewHandler creates a Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		provider:     cfg.Provider,
		profile:      cfg.Profile,
		providerName: cfg.ProviderName,
		logger:       cfg.Logger.WithModule("bot"),
		metrics:      cfg.Metrics,
		timeout:      cfg.Timeout,
	}
}

// Start replies with the welcome text.
func (h *Handler) Start(ctx context.Context, conv Conversation) error {
	return h.static(ctx, conv, kindStart, report.Welcome())
}

// Help replies with usage instructions.
func (h *Handler) Help(ctx context.Context, conv Conversation) error {
	return h.static(ctx, conv, kindHelp, report.Help(h.providerName))
}

func (h *Handler) static(ctx context.Context, conv Conversation, kind string, r report.Report) error {
	start := time.Now()
	ctx = ctxutil.WithPlatform(ctx, conv.Platform())

	if err := conv.Reply(ctx, r); err != nil {
		h.deliveryFailed(ctx, conv, "reply", err)
		return err
	}
	h.metrics.RecordMessage(conv.Platform(), kind, time.Since(start).Seconds())
	return nil
}

// HandleText handles a free-text message.
//
// Text that does not look like a phone number gets the guidance reply and
// never reaches the provider. Otherwise a placeholder is sent, the provider
// is queried with the normalized number and the placeholder is replaced by
// the rendered report. Any failure after the placeholder, including a panic,
// replaces it with an apology instead. Surrounding whitespace is ignored.
func (h *Handler) HandleText(ctx context.Context, conv Conversation, text string) (err error) {
	start := time.Now()
	text = strings.TrimSpace(text)
	ctx = ctxutil.WithPlatform(ctx, conv.Platform())
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	if typing, ok := conv.(TypingNotifier); ok {
		if err := typing.Typing(ctx); err != nil {
			h.logger.WithError(err).DebugContext(ctx, "Typing indicator failed")
		}
	}

	if !phone.LooksLikeNumber(text) {
		if err := conv.Reply(ctx, report.Guidance()); err != nil {
			h.deliveryFailed(ctx, conv, "reply", err)
			return err
		}
		h.metrics.RecordMessage(conv.Platform(), kindGuidance, time.Since(start).Seconds())
		return nil
	}

	placeholder, err := conv.Acknowledge(ctx, report.Placeholder(text))
	if err != nil {
		h.deliveryFailed(ctx, conv, "acknowledge", err)
		return err
	}

	rep, err := h.lookupReport(ctx, text)
	if err == nil {
		if err = placeholder.Edit(ctx, rep); err != nil {
			h.deliveryFailed(ctx, conv, "edit", err)
		}
	}
	if err != nil {
		h.apologize(ctx, conv, placeholder, text, err)
		h.metrics.RecordMessage(conv.Platform(), kindApology, time.Since(start).Seconds())
		return err
	}

	h.metrics.RecordMessage(conv.Platform(), kindLookup, time.Since(start).Seconds())
	return nil
}

// lookupReport fetches and renders. A panic anywhere in between becomes an error.
func (h *Handler) lookupReport(ctx context.Context, input string) (rep report.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during lookup: %v", r)
		}
	}()

	number := phone.Normalize(input)
	started := time.Now()
	result := h.provider.Fetch(ctx, number)
	h.metrics.RecordLookup(h.profile, result.Outcome(), time.Since(started).Seconds())

	log := h.logger.WithFields(map[string]any{
		"outcome":     result.Outcome(),
		"duration_ms": time.Since(started).Milliseconds(),
	})
	if f, failed := result.Failure(); failed {
		log.WithError(f).WarnContext(ctx, "Lookup failed")
	} else {
		log.InfoContext(ctx, "Lookup completed")
	}

	return report.Render(result, input, h.providerName), nil
}

func (h *Handler) apologize(ctx context.Context, conv Conversation, p Placeholder, input string, cause error) {
	h.logger.WithError(cause).ErrorContext(ctx, "Message handling failed")
	sentry.CaptureExceptionWithContext(ctx, cause)

	if err := p.Edit(ctx, report.Apology(input, apperrors.GetUserMessage(cause))); err != nil {
		h.deliveryFailed(ctx, conv, "edit", err)
	}
}

func (h *Handler) deliveryFailed(ctx context.Context, conv Conversation, operation string, err error) {
	h.metrics.RecordDeliveryError(conv.Platform(), operation)
	h.logger.WithError(err).WithField("operation", operation).ErrorContext(ctx, "Delivery failed")
}
