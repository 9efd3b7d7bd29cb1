// Package metrics collects Prometheus metrics for the upstream API calls
// and the best-effort shelf writes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the subset used by the API clients and the library service.
type Recorder interface {
	RecordUpstreamRequest(service string, statusCode int, duration time.Duration)
	RecordUpstreamError(service string)
	RecordShelfWrite(ok bool)
}

type Collector struct {
	upstreamStatus  *prometheus.CounterVec
	upstreamErrors  *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	shelfWrites     *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		upstreamStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "questlog_upstream_requests_total",
			Help: "Upstream API responses by service and status code.",
		}, []string{"service", "status_code"}),
		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "questlog_upstream_errors_total",
			Help: "Upstream API transport failures by service.",
		}, []string{"service"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "questlog_upstream_latency_seconds",
			Help:    "Upstream API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
		shelfWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "questlog_shelf_writes_total",
			Help: "Fire-and-forget shelf writes by outcome. Failures are the drift the UI never shows.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.upstreamStatus,
		c.upstreamErrors,
		c.upstreamLatency,
		c.shelfWrites,
	)

	return c
}

func (c *Collector) RecordUpstreamRequest(service string, statusCode int, duration time.Duration) {
	c.upstreamStatus.WithLabelValues(service, strconv.Itoa(statusCode)).Inc()
	c.upstreamLatency.WithLabelValues(service).Observe(duration.Seconds())
}

func (c *Collector) RecordUpstreamError(service string) {
	c.upstreamErrors.WithLabelValues(service).Inc()
}

func (c *Collector) RecordShelfWrite(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	c.shelfWrites.WithLabelValues(outcome).Inc()
}

// Handler returns the scrape handler for /metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop is used in tests and when metrics are not wired.
type Nop struct{}

func (Nop) RecordUpstreamRequest(string, int, time.Duration) {}
func (Nop) RecordUpstreamError(string)                      {}
func (Nop) RecordShelfWrite(bool)                           {}
