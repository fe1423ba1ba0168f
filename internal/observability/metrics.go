package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the Prometheus metrics for the proxy routes and the
// upstream calls behind them. A nil *Collector is valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	Lookups           *prometheus.CounterVec
	UpstreamDurations *prometheus.HistogramVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "city_explorer_lookups_total",
		Help: "Total number of handled proxy requests, labeled by route and outcome.",
	}, []string{"route", "outcome"})
	lookups, err := registerCounterVec(reg, lookups, "city_explorer_lookups_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "city_explorer_upstream_request_duration_seconds",
		Help:    "Latency of outbound upstream API calls in seconds.",
		Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"upstream"})
	durations, err = registerHistogramVec(reg, durations, "city_explorer_upstream_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:          gatherer,
		Lookups:           lookups,
		UpstreamDurations: durations,
	}, nil
}

// ObserveLookup counts one handled request for route with the given outcome label
func (c *Collector) ObserveLookup(route, outcome string) {
	if c == nil || c.Lookups == nil {
		return
	}
	c.Lookups.WithLabelValues(route, outcome).Inc()
}

// ObserveUpstream records the latency of one outbound call
func (c *Collector) ObserveUpstream(upstream string, d time.Duration) {
	if c == nil || c.UpstreamDurations == nil {
		return
	}
	c.UpstreamDurations.WithLabelValues(upstream).Observe(d.Seconds())
}

// Handler exposes a ready-to-use /metrics handler
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
