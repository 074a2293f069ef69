package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat_store",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chat_store",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "endpoint"},
	)

	RoomsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat_store",
			Subsystem: "chat",
			Name:      "rooms_created_total",
			Help:      "Chat rooms created, by room type",
		},
		[]string{"room_type"},
	)

	MessagesPostedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chat_store",
			Subsystem: "chat",
			Name:      "messages_posted_total",
			Help:      "Messages appended to room logs",
		},
	)

	ReceiptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat_store",
			Subsystem: "chat",
			Name:      "seen_receipts_total",
			Help:      "Mark-seen calls, by outcome (created or existing)",
		},
		[]string{"outcome"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat_store",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

func RecordRoomCreated(roomType string) {
	RoomsCreatedTotal.WithLabelValues(roomType).Inc()
}

func RecordMessagePosted() {
	MessagesPostedTotal.Inc()
}

func RecordReceipt(created bool) {
	outcome := "existing"
	if created {
		outcome = "created"
	}
	ReceiptsTotal.WithLabelValues(outcome).Inc()
}

func RecordRateLimited(scope string) {
	RateLimitedTotal.WithLabelValues(scope).Inc()
}
