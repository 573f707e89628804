// Package metrics exposes benchmark measurements as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weiihann/langbench/harness"
)

const namespace = "langbench"

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	KernelDuration      *prometheus.GaugeVec
	KernelThroughput    *prometheus.GaugeVec
	SuiteRuns           *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.KernelDuration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "kernel_duration_milliseconds",
			Help:      "Duration of the most recent run of a benchmark test",
		},
		[]string{"language", "test_name"},
	)

	m.KernelThroughput = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "kernel_operations_per_second",
			Help:      "Nominal throughput of the most recent run of a benchmark test",
		},
		[]string{"language", "test_name"},
	)

	m.SuiteRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suite_runs_total",
			Help:      "Total number of benchmark suite runs",
		},
		[]string{"status"},
	)

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.Registry.MustRegister(
		m.KernelDuration,
		m.KernelThroughput,
		m.SuiteRuns,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveResults records the latest measurement of every result.
func (m *Metrics) ObserveResults(results []harness.Result) {
	for _, r := range results {
		m.KernelDuration.WithLabelValues(r.Language, r.TestName).Set(r.DurationMs)
		m.KernelThroughput.WithLabelValues(r.Language, r.TestName).Set(r.OperationsPerSecond)
	}
}

// ObserveSuiteRun counts a finished suite run.
func (m *Metrics) ObserveSuiteRun(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.SuiteRuns.WithLabelValues(status).Inc()
}

// ObserveRequest records a served HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// Handler returns the exposition handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
