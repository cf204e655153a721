// Package metrics owns the Prometheus registry and the collectors the
// service records into. All methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskflow"

// Metrics holds the application's collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	llmRequests        *prometheus.CounterVec
	extractionDegraded *prometheus.CounterVec
	digestTasks        *prometheus.HistogramVec
}

// New creates a registry with the Go and process collectors plus the
// application collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Language model invocations by provider, output mode and outcome.",
		}, []string{"provider", "mode", "outcome"}),
		extractionDegraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_degraded_total",
			Help:      "Extraction results that fell back to a default value.",
		}, []string{"part", "reason"}),
		digestTasks: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "digest_tasks",
			Help:      "Number of tasks per digest bucket.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}, []string{"bucket"}),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.llmRequests, m.extractionDegraded, m.digestTasks)
	return m
}

// Registry returns the underlying registry.
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
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTPRequest records one handled request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveLLMRequest records one language model invocation.
func (m *Metrics) ObserveLLMRequest(provider, mode, outcome string) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(provider, mode, outcome).Inc()
}

// IncExtractionDegraded records a fallback in the extraction pipeline.
func (m *Metrics) IncExtractionDegraded(part, reason string) {
	if m == nil {
		return
	}
	m.extractionDegraded.WithLabelValues(part, reason).Inc()
}

// ObserveDigestBucket records the size of one digest bucket.
func (m *Metrics) ObserveDigestBucket(bucket string, size int) {
	if m == nil {
		return
	}
	m.digestTasks.WithLabelValues(bucket).Observe(float64(size))
}
