// Package telegram connects the bot to Telegram through the Bot API, using
// long polling or a webhook.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/garyellow/phoneinfo-bot/internal/bot"
	"github.com/garyellow/phoneinfo-bot/internal/ctxutil"
	"github.com/garyellow/phoneinfo-bot/internal/logger"
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// Platform is the platform name used in logs and metrics.
const Platform = "telegram"

// Config configures the Telegram adapter.
type Config struct {
	Token         string
	WebhookURL    string // empty selects long polling
	WebhookSecret string

	// ServerURL overrides the Bot API endpoint (tests, local Bot API servers).
	ServerURL string
}

// Adapter receives Telegram updates and hands messages to the bot handler.
type Adapter struct {
	client     *tgbot.Bot
	api        API
	handler    *bot.Handler
	logger     *logger.Logger
	webhookURL string
	secret     string
	running    atomic.Bool
	inflight   sync.WaitGroup // updates being handled
}

// New creates the adapter. Creating the client validates the token with getMe.
func New(cfg Config, handler *bot.Handler, log *logger.Logger) (*Adapter, error) {
	a := &Adapter{
		handler:    handler,
		logger:     log.WithModule(Platform),
		webhookURL: cfg.WebhookURL,
		secret:     cfg.WebhookSecret,
	}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			a.HandleUpdate(ctx, update)
		}),
		tgbot.WithErrorsHandler(func(err error) {
			a.logger.WithError(err).Warn("Telegram client error")
		}),
	}
	if cfg.WebhookSecret != "" {
		opts = append(opts, tgbot.WithWebhookSecretToken(cfg.WebhookSecret))
	}
	if cfg.ServerURL != "" {
		opts = append(opts, tgbot.WithServerURL(cfg.ServerURL))
	}

	client, err := tgbot.New(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telegram: create client: %w", err)
	}
	a.client = client
	a.api = client
	return a, nil
}

// newWithAPI creates an adapter without a network client.
func newWithAPI(api API, handler *bot.Handler, log *logger.Logger) *Adapter {
	return &Adapter{api: api, handler: handler, logger: log.WithModule(Platform)}
}

// UsesWebhook reports whether updates arrive through WebhookHandler.
func (a *Adapter) UsesWebhook() bool {
	return a.webhookURL != ""
}

// WebhookHandler serves Telegram webhook requests. The secret token header is
// checked by the client when a secret is configured.
func (a *Adapter) WebhookHandler() http.Handler {
	return a.client.WebhookHandler()
}

// Running reports whether updates are being received.
func (a *Adapter) Running() bool {
	return a.running.Load()
}

// Run receives updates until ctx is canceled.
//
// In webhook mode the webhook is registered and updates are consumed from
// WebhookHandler. Otherwise any webhook is removed, pending updates are
// dropped and long polling starts.
func (a *Adapter) Run(ctx context.Context) error {
	if a.UsesWebhook() {
		if _, err := a.client.SetWebhook(ctx, &tgbot.SetWebhookParams{
			URL:         a.webhookURL,
			SecretToken: a.secret,
		}); err != nil {
			return fmt.Errorf("telegram: set webhook: %w", err)
		}
		a.logger.Info("Receiving Telegram updates by webhook")
		a.running.Store(true)
		defer a.running.Store(false)
		a.client.StartWebhook(ctx)
		return nil
	}

	if _, err := a.client.DeleteWebhook(ctx, &tgbot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("telegram: delete webhook: %w", err)
	}
	a.logger.Info("Receiving Telegram updates by long polling")
	a.running.Store(true)
	defer a.running.Store(false)
	a.client.Start(ctx)
	return nil
}

// HandleUpdate dispatches one update. Only new text messages are handled;
// /start and /help are answered with static texts and other commands are ignored.
func (a *Adapter) HandleUpdate(ctx context.Context, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.Text == "" {
		return
	}
	msg := update.Message

	a.inflight.Add(1)
	defer a.inflight.Done()

	// The update ctx ends when polling stops; a lookup in progress still
	// runs to completion and delivers its report.
	ctx = ctxutil.PreserveTracing(ctx)
	ctx = ctxutil.WithPlatform(ctx, Platform)
	ctx = ctxutil.WithChatID(ctx, strconv.FormatInt(msg.Chat.ID, 10))
	if msg.From != nil {
		ctx = ctxutil.WithUserID(ctx, strconv.FormatInt(msg.From.ID, 10))
	}
	ctx = ctxutil.WithRequestID(ctx, uuid.NewString())

	conv := &conversation{api: a.api, chatID: msg.Chat.ID}

	var err error
	switch command(msg.Text) {
	case "":
		err = a.handler.HandleText(ctx, conv, msg.Text)
	case "/start":
		err = a.handler.Start(ctx, conv)
	case "/help":
		err = a.handler.Help(ctx, conv)
	default:
		a.logger.DebugContext(ctx, "Ignoring unknown command")
		return
	}
	if err != nil {
		a.logger.WithError(err).WarnContext(ctx, "Update handling failed")
	}
}

// Shutdown waits for updates being handled to finish.
// It returns an error if the context is canceled before completion.
func (a *Adapter) Shutdown(ctx context.Context) error {
	c := make(chan struct{})
	go func() {
		defer close(c)
		a.inflight.Wait()
	}()

	select {
	case <-c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// command returns the bot command at the start of text ("/help" for
// "/help@my_bot now"), or "" when text is not a command.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(strings.Fields(text)[0], "@")
	return strings.ToLower(cmd)
}
