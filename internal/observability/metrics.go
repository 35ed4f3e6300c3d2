package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	engineOperationsTotal  *prometheus.CounterVec
	engineOperationSeconds *prometheus.HistogramVec
	storeRollbacksTotal    *prometheus.CounterVec
	eventsPublishedTotal   *prometheus.CounterVec

	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the engine and the HTTP adapter.
func RegisterMetrics() {
	registerOnce.Do(func() {
		engineOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engine_operations_total",
			Help: "Total number of workflow engine operations by outcome.",
		}, []string{"operation", "outcome"})

		engineOperationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "engine_operation_seconds",
			Help:    "Latency distribution of workflow engine operations.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"operation"})

		storeRollbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engine_store_rollbacks_total",
			Help: "Compensating writes performed after a failed multi-collection update.",
		}, []string{"result"})

		eventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engine_events_published_total",
			Help: "Workflow events published to external brokers.",
		}, []string{"transport", "outcome"})

		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(
			engineOperationsTotal,
			engineOperationSeconds,
			storeRollbacksTotal,
			eventsPublishedTotal,
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
		)
	})
}

// EngineOperations exposes the operation counter.
func EngineOperations() *prometheus.CounterVec {
	RegisterMetrics()
	return engineOperationsTotal
}

// EngineLatency exposes the operation latency histogram.
func EngineLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return engineOperationSeconds
}

// StoreRollbacks exposes the rollback counter. result is "restored" or "failed".
func StoreRollbacks() *prometheus.CounterVec {
	RegisterMetrics()
	return storeRollbacksTotal
}

// EventsPublishedTotal exposes the event publication counter.
func EventsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsPublishedTotal
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}
