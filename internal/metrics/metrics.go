package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Webhook delivery outcomes.
const (
	OutcomeMessage = "message" // carried a user message and was dispatched
	OutcomeIgnored = "ignored" // status/template event without a message
	OutcomeInvalid = "invalid" // body could not be decoded
	OutcomePanic   = "panic"   // dispatch panicked and was recovered
)

// Send statuses.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Metrics holds all Prometheus metrics. Every method is safe on a nil
// receiver so components can run without a registry.
type Metrics struct {
	WebhookEventsTotal    *prometheus.CounterVec
	ClassificationsTotal  *prometheus.CounterVec
	OutboundSendsTotal    *prometheus.CounterVec
	OutboundSendDuration  *prometheus.HistogramVec
	OutboundFailuresTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		WebhookEventsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "carebot_webhook_events_total",
				Help: "Total number of webhook deliveries by outcome",
			},
			[]string{"outcome"}, // outcome: message, ignored, invalid, panic
		),

		ClassificationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "carebot_classifications_total",
				Help: "Total number of classified messages by intent",
			},
			[]string{"intent"}, // intent: greeting, thanks, emergency, numeric, keyword, selection, unrecognized
		),

		OutboundSendsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "carebot_outbound_sends_total",
				Help: "Total number of outbound sends by message kind and status",
			},
			[]string{"kind", "status"}, // kind: text, button, list; status: sent, failed
		),

		OutboundSendDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "carebot_outbound_send_duration_seconds",
				Help:    "Outbound send duration in seconds by message kind",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"kind"},
		),

		OutboundFailuresTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "carebot_outbound_failures_total",
				Help: "Total number of failed outbound sends by reason",
			},
			[]string{"reason"}, // reason: unconfigured, timeout, network, api_4xx, api_5xx, ...
		),
	}
}

// RecordWebhookEvent counts one webhook delivery.
func (m *Metrics) RecordWebhookEvent(outcome string) {
	if m == nil {
		return
	}
	m.WebhookEventsTotal.WithLabelValues(outcome).Inc()
}

// RecordClassification counts one classified message.
func (m *Metrics) RecordClassification(intent string) {
	if m == nil {
		return
	}
	m.ClassificationsTotal.WithLabelValues(intent).Inc()
}

// RecordSend records one outbound send. reason is empty on success.
func (m *Metrics) RecordSend(kind, reason string, d time.Duration) {
	if m == nil {
		return
	}
	status := StatusSent
	if reason != "" {
		status = StatusFailed
		m.OutboundFailuresTotal.WithLabelValues(reason).Inc()
	}
	m.OutboundSendsTotal.WithLabelValues(kind, status).Inc()
	m.OutboundSendDuration.WithLabelValues(kind).Observe(d.Seconds())
}
