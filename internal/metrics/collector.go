// Package metrics exposes relay and HTTP counters in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests and multiple servers in one
// process don't collide on the default one.
type Collector struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
}

// NewCollector registers every metric under namespace. Upstream latency
// buckets reach past the 180s relay timeout.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "chat_relay"
	}
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Webhook calls by outcome and upstream status code.",
		}, []string{"outcome", "code"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Time spent waiting on the webhook.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 180},
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Inbound requests by method, route and status.",
		}, []string{"method", "route", "code"}),
	}

	registry.MustRegister(
		c.upstreamRequests,
		c.upstreamDuration,
		c.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveUpstream records one relay attempt. A zero statusCode is reported
// as code "none".
func (c *Collector) ObserveUpstream(outcome string, statusCode int, elapsed time.Duration) {
	code := "none"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	c.upstreamRequests.WithLabelValues(outcome, code).Inc()
	c.upstreamDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveHTTP records one inbound request. route should be the matched
// pattern, not the raw path, to keep cardinality bounded.
func (c *Collector) ObserveHTTP(method, route string, statusCode int) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
