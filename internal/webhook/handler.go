// Package webhook receives LINE webhook events and answers them through the
// bot handler.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/garyellow/phoneinfo-bot/internal/bot"
	"github.com/garyellow/phoneinfo-bot/internal/ctxutil"
	"github.com/garyellow/phoneinfo-bot/internal/logger"
	"github.com/garyellow/phoneinfo-bot/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// Platform is the platform name used in logs and metrics.
const Platform = "line"

// maxEventsPerWebhook caps the events processed from one request.
const maxEventsPerWebhook = 100

var errReplyTokenUsed = errors.New("reply token already used")

// Handler handles LINE webhook events
type Handler struct {
	channelSecret string
	client        Client
	bot           *bot.Handler
	metrics       *metrics.Metrics
	logger        *logger.Logger
	timeout       time.Duration
	wg            sync.WaitGroup // async event processing
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	ChannelSecret string
	Client        Client
	Bot           *bot.Handler
	Metrics       *metrics.Metrics
	Logger        *logger.Logger

	// Timeout bounds the processing of one event.
	Timeout time.Duration
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		channelSecret: cfg.ChannelSecret,
		client:        cfg.Client,
		bot:           cfg.Bot,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger.WithModule(Platform),
		timeout:       cfg.Timeout,
	}
}

// Handle is the Gin handler for the webhook endpoint.
// It verifies the signature, answers 200 at once and processes the events
// in the background.
func (h *Handler) Handle(c *gin.Context) {
	start := time.Now()

	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.WarnContext(c.Request.Context(), "Invalid webhook signature")
			h.metrics.RecordWebhook(Platform, "invalid_signature", time.Since(start).Seconds())
			c.Status(http.StatusBadRequest)
		} else {
			h.logger.WithError(err).ErrorContext(c.Request.Context(), "Failed to parse webhook request")
			h.metrics.RecordWebhook(Platform, "error", time.Since(start).Seconds())
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
	h.metrics.RecordWebhook(Platform, "success", time.Since(start).Seconds())

	events := cb.Events
	if len(events) > maxEventsPerWebhook {
		h.logger.WithField("event_count", len(events)).Warn("Too many events in webhook batch; truncating")
		events = events[:maxEventsPerWebhook]
	}
	if len(events) == 0 {
		return
	}
	events = append([]webhook.EventInterface(nil), events...)

	// The request context ends with the response; keep only its tracing values.
	ctx := ctxutil.WithPlatform(ctxutil.PreserveTracing(c.Request.Context()), Platform)

	h.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.WithField("panic", fmt.Sprint(r)).Error("Panic in async event processing")
			}
		}()
		for _, event := range events {
			h.processEvent(ctx, event)
		}
	})
}

// processEvent handles one event. Text messages are looked up; a follow
// event gets the welcome text. In groups and rooms only messages that
// mention the bot are answered, with the mention removed.
func (h *Handler) processEvent(ctx context.Context, event webhook.EventInterface) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	switch e := event.(type) {
	case webhook.MessageEvent:
		text, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			return
		}
		input := text.Text
		if !isPersonalChat(e.Source) {
			if !isBotMentioned(text) {
				return
			}
			input = removeBotMentions(text.Text, text.Mention)
		}
		ctx, conv := h.conversation(ctx, e.WebhookEventId, e.Source, e.ReplyToken)
		h.done(ctx, "message", h.bot.HandleText(ctx, conv, input))

	case webhook.FollowEvent:
		ctx, conv := h.conversation(ctx, e.WebhookEventId, e.Source, e.ReplyToken)
		h.done(ctx, "follow", h.bot.Start(ctx, conv))

	default:
		h.logger.WithField("event_type", fmt.Sprintf("%T", e)).DebugContext(ctx, "Unsupported event type")
	}
}

func (h *Handler) conversation(ctx context.Context, eventID string, source webhook.SourceInterface, replyToken string) (context.Context, *conversation) {
	if eventID != "" {
		ctx = ctxutil.WithRequestID(ctx, eventID)
	}
	ctx = ctxutil.WithChatID(ctx, chatID(source))
	ctx = ctxutil.WithUserID(ctx, userID(source))

	return ctx, &conversation{
		client:     h.client,
		logger:     h.logger,
		chatID:     chatID(source),
		replyToken: replyToken,
	}
}

func (h *Handler) done(ctx context.Context, eventType string, err error) {
	log := h.logger.WithField("event_type", eventType)
	if err != nil {
		log.WithError(err).WarnContext(ctx, "Event handling failed")
		return
	}
	log.DebugContext(ctx, "Event processed")
}

// Shutdown waits for all async event processing to complete.
// It returns an error if the context is canceled before completion.
func (h *Handler) Shutdown(ctx context.Context) error {
	c := make(chan struct{})
	go func() {
		defer close(c)
		h.wg.Wait()
	}()

	select {
	case <-c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
