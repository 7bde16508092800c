// Package metrics exposes cache and refresh counters of symwatch to Prometheus
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robotomize/symwatch"
	"github.com/robotomize/symwatch/label"
)

var (
	_ symwatch.CacheObserver   = (*Metrics)(nil)
	_ symwatch.RefreshObserver = (*Metrics)(nil)
)

type Metrics struct {
	registry *prometheus.Registry

	RateCacheHitsTotal     *prometheus.CounterVec
	RateFetchesTotal       *prometheus.CounterVec
	RateFetchFailuresTotal *prometheus.CounterVec
	RateFetchDuration      prometheus.Histogram
	RefreshDuration        prometheus.Histogram
	RefreshFailuresTotal   prometheus.Counter
}

// NewMetrics registers the collectors on a registry of their own
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RateCacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "symwatch_rate_cache_hits_total",
				Help: "Total number of exchange rates served from the cache",
			},
			[]string{"pair"},
		),

		RateFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "symwatch_rate_fetches_total",
				Help: "Total number of exchange rate fetches",
			},
			[]string{"pair"},
		),

		RateFetchFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "symwatch_rate_fetch_failures_total",
				Help: "Total number of failed exchange rate fetches",
			},
			[]string{"pair"},
		),

		RateFetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "symwatch_rate_fetch_duration_seconds",
				Help:    "Exchange rate fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		RefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "symwatch_refresh_duration_seconds",
				Help:    "Portfolio refresh duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		RefreshFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "symwatch_refresh_failures_total",
				Help: "Total number of refreshes with at least one failed symbol",
			},
		),
	}
}

func (m *Metrics) ObserveHit(pair label.Pair) {
	m.RateCacheHitsTotal.WithLabelValues(pair.String()).Inc()
}

func (m *Metrics) ObserveFetch(pair label.Pair, elapsed time.Duration, err error) {
	m.RateFetchesTotal.WithLabelValues(pair.String()).Inc()
	m.RateFetchDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.RateFetchFailuresTotal.WithLabelValues(pair.String()).Inc()
	}
}

func (m *Metrics) ObserveRefresh(elapsed time.Duration, err error) {
	m.RefreshDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.RefreshFailuresTotal.Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
