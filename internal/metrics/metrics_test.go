package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersAll(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordLookup("term", "success", 0.2)
	m.RecordMessage("telegram", "lookup", 0.3)
	m.RecordDeliveryError("line", "reply")
	m.RecordWebhook("line", "success", 0.01)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"phoneinfo_lookup_requests_total",
		"phoneinfo_lookup_duration_seconds",
		"phoneinfo_messages_total",
		"phoneinfo_message_duration_seconds",
		"phoneinfo_delivery_errors_total",
		"phoneinfo_webhook_requests_total",
		"phoneinfo_webhook_duration_seconds",
	}, names)
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestRecordLookup(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordLookup("term", "success", 0.5)
	m.RecordLookup("term", "success", 0.7)
	m.RecordLookup("term", "timeout", 15)
	m.RecordLookup("path", "http", 0.1)

	assert.InDelta(t, 2, testutil.ToFloat64(m.LookupRequestsTotal.WithLabelValues("term", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LookupRequestsTotal.WithLabelValues("term", "timeout")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LookupRequestsTotal.WithLabelValues("path", "http")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.LookupDurationSeconds))
}

func TestRecordMessageAndDelivery(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordMessage("line", "guidance", 0.01)
	m.RecordMessage("line", "lookup", 1.2)
	m.RecordDeliveryError("telegram", "edit")

	assert.InDelta(t, 1, testutil.ToFloat64(m.MessagesTotal.WithLabelValues("line", "guidance")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.DeliveryErrorsTotal.WithLabelValues("telegram", "edit")), 0)
}
