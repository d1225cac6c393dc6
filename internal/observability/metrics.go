package observability

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the prometheus collectors shared by the HTTP layer and the
// remote store client. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	requestCount   *prometheus.CounterVec
	errorCount     *prometheus.CounterVec
	remoteCalls    *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
	refreshes      *prometheus.CounterVec
}

// NewMetrics registers collectors on a fresh registry.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "HTTP error responses by route, method and error code.",
		}, []string{"path", "method", "code"}),
		remoteCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_calls_total",
			Help:      "Calls to the remote store by table, operation and result.",
		}, []string{"table", "op", "result"}),
		remoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_call_duration_seconds",
			Help:      "Latency of remote store calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"table", "op"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_refresh_total",
			Help:      "Projection refreshes by collection and result.",
		}, []string{"collection", "result"}),
	}
	reg.MustRegister(
		m.requestCount,
		m.errorCount,
		m.remoteCalls,
		m.remoteDuration,
		m.refreshes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// ObserveRemote records one remote store call.
func (m *Metrics) ObserveRemote(table, op string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.remoteDuration.WithLabelValues(table, op).Observe(time.Since(started).Seconds())
	m.remoteCalls.WithLabelValues(table, op, resultLabel(err)).Inc()
}

// RecordRefresh counts one collection refresh attempt.
func (m *Metrics) RecordRefresh(collection string, err error) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(collection, resultLabel(err)).Inc()
}

// notFound lets callers mark lookups that found nothing without importing the
// repository package here.
type notFound interface{ NotFound() bool }

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var nf notFound
	if errors.As(err, &nf) && nf.NotFound() {
		return "not_found"
	}
	return "error"
}
