// Package metrics provides Prometheus metrics for the gigboard service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Snapshot sources reported by RecordSnapshotLoad.
const (
	SourceCache = "cache"
	SourceStore = "store"
)

// Manager owns every collector exposed by the service. A nil *Manager is a
// valid no-op recorder.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	bookingsRecorded  prometheus.Counter
	bookingErrors     prometheus.Counter
	snapshotLoads     *prometheus.CounterVec
	snapshotRefreshes prometheus.Counter
	storeReadLatency  prometheus.Histogram

	evaluations      *prometheus.CounterVec
	evaluationErrors *prometheus.CounterVec
	finalScores      prometheus.Histogram

	weeklyReports *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a Manager on a fresh registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gigboard",
		histogramBuckets: prometheus.DefBuckets,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.bookingsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "bookings",
		Name:      "recorded_total",
		Help:      "Bookings appended to the backing sheet",
	})
	m.bookingErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "bookings",
		Name:      "errors_total",
		Help:      "Bookings rejected or failed to persist",
	})
	m.snapshotLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "bookings",
		Name:      "snapshot_loads_total",
		Help:      "Booking snapshot loads by source (cache or store)",
	}, []string{"source"})
	m.snapshotRefreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "bookings",
		Name:      "snapshot_refreshes_total",
		Help:      "Explicit snapshot invalidations",
	})
	m.storeReadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "bookings",
		Name:      "store_read_seconds",
		Help:      "Latency of reading the full booking range from the store",
		Buckets:   m.histogramBuckets,
	})

	m.evaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "decision",
		Name:      "evaluations_total",
		Help:      "Candidate evaluations by verdict",
	}, []string{"verdict"})
	m.evaluationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "decision",
		Name:      "evaluation_errors_total",
		Help:      "Failed evaluations by reason",
	}, []string{"reason"})
	m.finalScores = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "decision",
		Name:      "final_score",
		Help:      "Distribution of final decision scores",
		Buckets:   []float64{0.2, 0.4, 0.65, 0.9, 1.2, 1.5, 2},
	})

	m.weeklyReports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "reporting",
		Name:      "weekly_reports_total",
		Help:      "Weekly reports generated by outcome",
	}, []string{"outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route"})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordBooking counts a booking append attempt.
func (m *Manager) RecordBooking(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.bookingErrors.Inc()
		return
	}
	m.bookingsRecorded.Inc()
}

// RecordSnapshotLoad counts where a booking snapshot came from.
func (m *Manager) RecordSnapshotLoad(source string) {
	if m == nil {
		return
	}
	m.snapshotLoads.WithLabelValues(source).Inc()
}

// RecordSnapshotRefresh counts an explicit invalidation.
func (m *Manager) RecordSnapshotRefresh() {
	if m == nil {
		return
	}
	m.snapshotRefreshes.Inc()
}

// ObserveStoreRead records how long a full store read took.
func (m *Manager) ObserveStoreRead(d time.Duration) {
	if m == nil {
		return
	}
	m.storeReadLatency.Observe(d.Seconds())
}

// RecordEvaluation counts a successful evaluation.
func (m *Manager) RecordEvaluation(verdict string, score float64) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(verdict).Inc()
	m.finalScores.Observe(score)
}

// RecordEvaluationError counts a failed evaluation.
func (m *Manager) RecordEvaluationError(reason string) {
	if m == nil {
		return
	}
	m.evaluationErrors.WithLabelValues(reason).Inc()
}

// RecordWeeklyReport counts a weekly report run.
func (m *Manager) RecordWeeklyReport(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.weeklyReports.WithLabelValues(outcome).Inc()
}

// ObserveHTTPRequest records one served request.
func (m *Manager) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
