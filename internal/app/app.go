// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/garyellow/phoneinfo-bot/internal/bot"
	"github.com/garyellow/phoneinfo-bot/internal/buildinfo"
	"github.com/garyellow/phoneinfo-bot/internal/config"
	"github.com/garyellow/phoneinfo-bot/internal/ctxutil"
	"github.com/garyellow/phoneinfo-bot/internal/logger"
	"github.com/garyellow/phoneinfo-bot/internal/lookup"
	"github.com/garyellow/phoneinfo-bot/internal/metrics"
	"github.com/garyellow/phoneinfo-bot/internal/sentry"
	"github.com/garyellow/phoneinfo-bot/internal/telegram"
	"github.com/garyellow/phoneinfo-bot/internal/webhook"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg      *config.Config
	logger   *logger.Logger
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	bot      *bot.Handler
	telegram *telegram.Adapter // nil when Telegram is not configured
	line     *webhook.Handler  // nil when LINE is not configured
	server   *http.Server
	serving  atomic.Bool
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(os.Stdout, logger.Options{
		Level:            cfg.LogLevel,
		BetterstackToken: cfg.BetterStackToken,
	})

	log = log.WithField("service", "phoneinfo-bot")
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Package-level slog calls pick up platform, chat and request IDs from ctx.
	slog.SetDefault(log.Logger)

	log.WithField("release", buildinfo.Release()).Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Release(),
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Error tracking disabled: initialization failed")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Error tracking enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())
	m := metrics.New(registry)

	provider, err := lookup.New(cfg.LookupConfig())
	if err != nil {
		return nil, fmt.Errorf("create lookup provider: %w", err)
	}
	log.WithField("provider", cfg.LookupProvider).
		WithField("provider_name", cfg.LookupProviderName).
		Info("Lookup provider configured")

	app := &Application{
		cfg:      cfg,
		logger:   log,
		metrics:  m,
		registry: registry,
		bot: bot.NewHandler(bot.Config{
			Provider:     provider,
			Profile:      cfg.LookupProvider,
			ProviderName: cfg.LookupProviderName,
			Logger:       log,
			Metrics:      m,
			Timeout:      config.MessageProcessing,
		}),
	}

	if cfg.HasTelegram() {
		adapter, err := telegram.New(telegram.Config{
			Token:         cfg.TelegramToken,
			WebhookURL:    cfg.TelegramWebhookURL,
			WebhookSecret: cfg.TelegramWebhookSecret,
		}, app.bot, log)
		if err != nil {
			return nil, err
		}
		app.telegram = adapter
		log.WithField("webhook", adapter.UsesWebhook()).Info("Telegram transport enabled")
	}

	if cfg.HasLine() {
		client, err := webhook.NewMessagingClient(cfg.LineChannelToken)
		if err != nil {
			return nil, err
		}
		app.line = webhook.NewHandler(webhook.HandlerConfig{
			ChannelSecret: cfg.LineChannelSecret,
			Client:        client,
			Bot:           app.bot,
			Metrics:       m,
			Logger:        log,
			Timeout:       config.LineProcessing,
		})
		log.Info("LINE transport enabled")
	}

	gin.SetMode(gin.ReleaseMode)
	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.routes(),
		ReadHeaderTimeout: config.WebhookHTTPRead,
		ReadTimeout:       config.WebhookHTTPRead,
		WriteTimeout:      config.WebhookHTTPWrite,
		IdleTimeout:       config.WebhookHTTPIdle,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	log.Info("Initialization complete")
	return app, nil
}

// routes builds the HTTP router.
func (a *Application) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(a.logger))

	router.GET("/livez", a.livenessCheck)
	router.HEAD("/livez", a.livenessCheck)
	router.GET("/readyz", a.readinessCheck)
	router.HEAD("/readyz", a.readinessCheck)
	router.GET("/metrics",
		metricsAuthMiddleware(a.cfg.MetricsAuthEnabled(), a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	if a.line != nil {
		router.POST("/webhook/line", a.line.Handle)
	}
	if a.telegram != nil && a.telegram.UsesWebhook() {
		router.POST("/webhook/telegram", gin.WrapH(a.telegram.WebhookHandler()))
	}
	return router
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// transports reports which chat platforms are currently receiving messages.
func (a *Application) transports() map[string]bool {
	return map[string]bool{
		telegram.Platform: a.telegram != nil && a.telegram.Running(),
		webhook.Platform:  a.line != nil && a.serving.Load(),
	}
}

func (a *Application) readinessCheck(c *gin.Context) {
	transports := a.transports()
	for _, up := range transports {
		if up {
			c.JSON(http.StatusOK, gin.H{
				"status":     "ready",
				"transports": transports,
			})
			return
		}
	}

	a.logger.Debug("Readiness check: no transport running")
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":     "not ready",
		"reason":     "no transport running",
		"transports": transports,
	})
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext serves HTTP and receives chat updates until ctx is canceled or
// one of them fails, then shuts down.
func (a *Application) RunContext(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		a.logger.WithField("addr", listener.Addr().String()).Info("Starting HTTP server")
		a.serving.Store(true)
		defer a.serving.Store(false)
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if a.telegram != nil {
		g.Go(func() error {
			return a.telegram.Run(gctx)
		})
	}

	<-gctx.Done()
	if ctx.Err() != nil {
		a.logger.Info("Received shutdown signal")
	} else {
		a.logger.Warn("A component stopped unexpectedly, shutting down")
	}
	cancel()

	shutdownErr := a.shutdown()
	if err := g.Wait(); err != nil {
		a.logger.WithError(err).Error("Component failed")
		return err
	}
	return shutdownErr
}

func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	var errs []error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
		errs = append(errs, err)
	}

	if a.telegram != nil {
		a.logger.Info("Waiting for Telegram updates to complete...")
		if err := a.telegram.Shutdown(shutdownCtx); err != nil {
			a.logger.WithError(err).Warn("Telegram adapter shutdown timeout")
			errs = append(errs, err)
		}
	}

	if a.line != nil {
		a.logger.Info("Waiting for webhook events to complete...")
		if err := a.line.Shutdown(shutdownCtx); err != nil {
			a.logger.WithError(err).Warn("Webhook handler shutdown timeout")
			errs = append(errs, err)
		}
	}

	if sentry.IsEnabled() && !sentry.Flush(2*time.Second) {
		a.logger.Warn("Error tracking flush timed out")
	}

	a.logger.Info("Shutdown complete")
	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "logger shutdown: %v\n", err)
	}
	return errors.Join(errs...)
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Next()
	}
}

// requestIDHeaders are checked in order for an incoming request ID.
var requestIDHeaders = []string{"X-Request-Id", "X-Correlation-Id"}

// loggingMiddleware tags each request with a request ID and logs it with a
// status-based level: 5xx=Error, 4xx=Warn except 404, everything else Debug.
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		var requestID string
		for _, h := range requestIDHeaders {
			if requestID = c.GetHeader(h); requestID != "" {
				break
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-Id", requestID)
		c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		status := c.Writer.Status()
		entry := log.WithRequestID(requestID).
			WithField("http_method", method).
			WithField("http_path", path).
			WithField("http_status", status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("client_ip", c.ClientIP())

		switch {
		case status >= 500:
			entry.Error("HTTP request failed")
		case status >= 400 && status != http.StatusNotFound:
			entry.Warn("HTTP request rejected")
		default:
			entry.Debug("HTTP request completed")
		}
	}
}
