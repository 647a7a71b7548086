package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Deliverable toggle count, by outcome (applied / not_found)
	DeliverableToggleCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deliverable_toggle_count",
			Help: "Total number of deliverable toggle operations",
		},
		[]string{"outcome"},
	)

	// Milestone persist latency (milliseconds), by status (success / failure)
	MilestonePersistLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "milestone_persist_latency_ms",
			Help:    "Milestone persistence write latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"status"},
	)

	// Assistant upstream call latency (milliseconds), by status
	AssistantCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_call_latency_ms",
			Help:    "Chat assistant upstream call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"status"},
	)

	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// MQ consume latency (milliseconds)
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
		[]string{"routing_key", "queue"},
	)

	// Notification write count
	NotificationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_count",
			Help: "Total number of notifications created",
		},
		[]string{"type"},
	)

	// Slow query count
	SlowQueryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of slow database queries",
		},
		[]string{"operation"},
	)
)

// IncrementToggle records a toggle operation outcome.
func IncrementToggle(outcome string) {
	DeliverableToggleCount.WithLabelValues(outcome).Inc()
}

// RecordPersistLatency records a milestone persist latency.
func RecordPersistLatency(status string, duration time.Duration) {
	MilestonePersistLatency.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

// RecordAssistantCallLatency records an assistant upstream call latency.
func RecordAssistantCallLatency(status string, duration time.Duration) {
	AssistantCallLatency.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

// RecordHTTPRequestDuration records an HTTP request duration.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordMQConsumeLatency records an MQ consumption latency.
func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

// IncrementNotification increments the notification count for a type.
func IncrementNotification(notificationType string) {
	NotificationCount.WithLabelValues(notificationType).Inc()
}

// IncrementSlowQuery increments the slow query counter.
func IncrementSlowQuery(operation string) {
	SlowQueryCount.WithLabelValues(operation).Inc()
}
