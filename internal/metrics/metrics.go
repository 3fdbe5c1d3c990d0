// Package metrics exposes Prometheus collectors for ephemeris refreshes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orrery"

// Collector holds the refresh metrics on its own registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	bodyDistance    *prometheus.GaugeVec
	refreshCycles   prometheus.Counter
}

// New creates and registers the collectors.
func New() *Collector {
	m := &Collector{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ephemeris_requests_total",
				Help:      "Ephemeris requests by body and reconcile outcome",
			},
			[]string{"body", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ephemeris_request_duration_seconds",
				Help:      "Time spent fetching ephemeris text",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"body"},
		),
		bodyDistance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "body_distance_scene_units",
				Help:      "Distance of the last applied position from the origin",
			},
			[]string{"body"},
		),
		refreshCycles: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refresh_cycles_total",
				Help:      "Completed refresh cycles",
			},
		),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.bodyDistance,
		m.refreshCycles,
		collectors.NewGoCollector(),
	)

	return m
}

// RecordRequest observes fetch duration and counts the outcome.
func (m *Collector) RecordRequest(body, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(body).Observe(duration.Seconds())
	m.requestsTotal.WithLabelValues(body, outcome).Inc()
}

// SetDistance records the norm of a body's applied position.
func (m *Collector) SetDistance(body string, d float64) {
	if m == nil {
		return
	}
	m.bodyDistance.WithLabelValues(body).Set(d)
}

// CycleCompleted counts one finished refresh cycle.
func (m *Collector) CycleCompleted() {
	if m == nil {
		return
	}
	m.refreshCycles.Inc()
}

// Registry returns the underlying registry.
func (m *Collector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
