package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	WebhookBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_webhook_batches_total",
			Help: "Provider webhook batches processed",
		},
		[]string{"result"}, // "ok" or "error"
	)

	MessagesStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_messages_stored_total",
			Help: "Messages persisted",
		},
		[]string{"direction", "kind"},
	)

	MessagesDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "whatsapp_messages_deduplicated_total",
			Help: "Message creates absorbed by insert-if-absent",
		},
	)

	StatusesApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "whatsapp_statuses_applied_total",
			Help: "Status updates matched to a stored message",
		},
	)

	StatusesUnmatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "whatsapp_statuses_unmatched_total",
			Help: "Status updates with no matching message",
		},
	)

	// Realtime metrics
	DeltasPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_realtime_deltas_published_total",
			Help: "Realtime events fanned out to subscribers",
		},
		[]string{"event"},
	)

	DeltasDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "whatsapp_realtime_deltas_dropped_total",
			Help: "Realtime deliveries dropped for slow subscribers",
		},
	)
)
