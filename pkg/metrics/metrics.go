package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served (count)",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "HTTP request duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"method", "route"},
	)

	SearchMirrorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_mirror_total",
			Help: "Total number of user mirror attempts into the search index (count)",
		},
		[]string{"mode", "status"},
	)

	MessagesPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "Total number of messages published to the broker (count)",
		},
		[]string{"status"},
	)

	MessagesReceivedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_received_total",
			Help: "Total number of messages received from the broker (count)",
		},
	)

	MessageBufferSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "message_buffer_size",
			Help: "Number of messages currently held in the received buffer (count)",
		},
	)

	WorkerPoolQueueSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_pool_queue_size",
			Help: "Current size of the worker pool task queue (count)",
		},
		[]string{"pool"},
	)

	WorkerPoolTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_pool_tasks_total",
			Help: "Total number of tasks executed by the worker pool (count)",
		},
		[]string{"pool", "status"},
	)

	WorkerPoolTaskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_pool_task_duration_ms",
			Help:    "Task execution duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"pool"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			SearchMirrorTotal,
			MessagesPublishedTotal,
			MessagesReceivedTotal,
			MessageBufferSize,
			WorkerPoolQueueSize,
			WorkerPoolTasksTotal,
			WorkerPoolTaskDuration,
			CircuitBreakerState,
			CircuitBreakerFailures,
		)
	})
}

func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(float64(duration.Milliseconds()))
}

func IncSearchMirror(mode, status string) {
	SearchMirrorTotal.WithLabelValues(mode, status).Inc()
}

func IncMessagesPublished(status string) {
	MessagesPublishedTotal.WithLabelValues(status).Inc()
}

func IncMessagesReceived() {
	MessagesReceivedTotal.Inc()
}

func SetMessageBufferSize(size int) {
	MessageBufferSize.Set(float64(size))
}
