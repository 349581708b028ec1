package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the surface external-service clients report through.
type Recorder interface {
	RecordExternalCall(service string, success bool, duration time.Duration)
}

// Collector gathers Prometheus metrics for calls to the five external
// boundaries (auth, storage, row store, postal lookup, user generator).
type Collector struct {
	registry        *prometheus.Registry
	externalCalls   *prometheus.CounterVec
	externalLatency *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		externalCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rede_external_calls_total",
			Help: "External service calls by service and outcome",
		}, []string{"service", "outcome"}),
		externalLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rede_external_call_latency_seconds",
			Help:    "External service call latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
	}

	c.registry.MustRegister(c.externalCalls, c.externalLatency)

	return c
}

// RecordExternalCall records one call to an external service.
func (c *Collector) RecordExternalCall(service string, success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	c.externalCalls.WithLabelValues(service, outcome).Inc()
	c.externalLatency.WithLabelValues(service).Observe(duration.Seconds())
}

// Handler returns the HTTP handler exposing the collected metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
