package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m3rciful/faqbot/core/buildinfo"
)

// Metrics holds all Prometheus metrics of the bot.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Update metrics
	UpdatesTotal           *prometheus.CounterVec
	HandlerDurationSeconds *prometheus.HistogramVec
	NoopEditsTotal         prometheus.Counter

	// Webhook metrics
	WebhookRejectedTotal *prometheus.CounterVec

	// Journal metrics
	JournalDuplicatesTotal prometheus.Counter

	BuildInfo *prometheus.GaugeVec
}

// New creates a Metrics instance with all metrics registered on registry.
// A nil registry gets a fresh one.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)
	m := &Metrics{
		registry: registry,

		UpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "faqbot_updates_total",
				Help: "Total number of handled updates by kind and status",
			},
			[]string{"kind", "status"}, // kind: command, callback, text; status: ok, fail, skip, duplicate
		),

		HandlerDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "faqbot_handler_duration_seconds",
				Help:    "Handler duration in seconds, Bot API round trips included",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"handler"},
		),

		NoopEditsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "faqbot_noop_edits_total",
				Help: "Edits rejected by Telegram because the content did not change",
			},
		),

		WebhookRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "faqbot_webhook_rejected_total",
				Help: "Webhook requests rejected before dispatch by reason",
			},
			[]string{"reason"}, // reason: secret, body
		),

		JournalDuplicatesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "faqbot_journal_duplicates_total",
				Help: "Redelivered updates skipped by the update journal",
			},
		),

		BuildInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "faqbot_build_info",
				Help: "Build metadata, always 1",
			},
			[]string{"version", "commit"},
		),
	}
	m.BuildInfo.WithLabelValues(buildinfo.Version, buildinfo.Commit).Set(1)
	return m
}

// Registry returns the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordUpdate counts one handled update.
func (m *Metrics) RecordUpdate(kind, status string) {
	if m == nil {
		return
	}
	m.UpdatesTotal.WithLabelValues(kind, status).Inc()
}

// ObserveHandler records handler latency.
func (m *Metrics) ObserveHandler(handler string, d time.Duration) {
	if m == nil {
		return
	}
	m.HandlerDurationSeconds.WithLabelValues(handler).Observe(d.Seconds())
}

// RecordNoopEdit counts an edit that changed nothing.
func (m *Metrics) RecordNoopEdit() {
	if m == nil {
		return
	}
	m.NoopEditsTotal.Inc()
}

// RecordWebhookRejected counts a request refused before dispatch.
func (m *Metrics) RecordWebhookRejected(reason string) {
	if m == nil {
		return
	}
	m.WebhookRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordJournalDuplicate counts a redelivered update.
func (m *Metrics) RecordJournalDuplicate() {
	if m == nil {
		return
	}
	m.JournalDuplicatesTotal.Inc()
}
