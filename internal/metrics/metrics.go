package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Lookup metrics
	LookupRequestsTotal   *prometheus.CounterVec
	LookupDurationSeconds *prometheus.HistogramVec

	// Message handling metrics
	MessagesTotal          *prometheus.CounterVec
	MessageDurationSeconds *prometheus.HistogramVec
	DeliveryErrorsTotal    *prometheus.CounterVec

	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		LookupRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phoneinfo_lookup_requests_total",
				Help: "Total number of provider lookups by profile and outcome",
			},
			[]string{"provider", "outcome"}, // outcome: success, empty, timeout, network, http, unexpected
		),

		LookupDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "phoneinfo_lookup_duration_seconds",
				Help:    "Provider lookup duration in seconds by profile",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15}, // capped by the 15s lookup timeout
			},
			[]string{"provider"},
		),

		MessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phoneinfo_messages_total",
				Help: "Total number of handled chat messages by platform and kind",
			},
			[]string{"platform", "kind"}, // kind: lookup, guidance, start, help, apology
		),

		MessageDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "phoneinfo_message_duration_seconds",
				Help:    "Time from receiving a message to the final reply",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"platform"},
		),

		DeliveryErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phoneinfo_delivery_errors_total",
				Help: "Total number of failed calls to a chat platform API",
			},
			[]string{"platform", "operation"}, // operation: reply, acknowledge, edit
		),

		WebhookRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phoneinfo_webhook_requests_total",
				Help: "Total number of webhook requests by platform and status",
			},
			[]string{"platform", "status"}, // status: success, invalid_signature, error
		),

		WebhookDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "phoneinfo_webhook_duration_seconds",
				Help:    "Webhook request handling duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
			},
			[]string{"platform"},
		),
	}
}

// RecordLookup records one provider call.
func (m *Metrics) RecordLookup(provider, outcome string, duration float64) {
	m.LookupRequestsTotal.WithLabelValues(provider, outcome).Inc()
	m.LookupDurationSeconds.WithLabelValues(provider).Observe(duration)
}

// RecordMessage records a handled message.
func (m *Metrics) RecordMessage(platform, kind string, duration float64) {
	m.MessagesTotal.WithLabelValues(platform, kind).Inc()
	m.MessageDurationSeconds.WithLabelValues(platform).Observe(duration)
}

// RecordDeliveryError records a failed platform API call.
func (m *Metrics) RecordDeliveryError(platform, operation string) {
	m.DeliveryErrorsTotal.WithLabelValues(platform, operation).Inc()
}

// RecordWebhook records a webhook request
func (m *Metrics) RecordWebhook(platform, status string, duration float64) {
	m.WebhookRequestsTotal.WithLabelValues(platform, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(platform).Observe(duration)
}
