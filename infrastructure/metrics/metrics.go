// ABOUTME: Prometheus metrics for the acquisition pipeline and cache layer
// ABOUTME: Recorder implements the core Observer; a collector reads cache health on scrape

package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/interfaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tokped"

// Recorder implements interfaces.Observer and events.DropCounter
type Recorder struct {
	registry *prometheus.Registry

	strategyAttempts *prometheus.CounterVec
	strategyDuration *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
	eventsDropped    *prometheus.CounterVec
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		strategyAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strategy_attempts_total",
			Help:      "Strategy attempts by strategy and outcome",
		}, []string{"strategy", "outcome"}),
		strategyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "strategy_duration_seconds",
			Help:      "Time spent in one strategy attempt",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result",
		}, []string{"result"}),
		pipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "End to end search duration by answering strategy",
			Buckets:   []float64{0.005, 0.05, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"strategy"}),
		eventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Completion events that were not delivered",
		}, []string{"reason"}),
	}
	r.registry.MustRegister(
		r.strategyAttempts,
		r.strategyDuration,
		r.cacheLookups,
		r.pipelineDuration,
		r.eventsDropped,
		collectors.NewGoCollector(),
	)
	return r
}

// StrategyAttempt records one strategy attempt
func (r *Recorder) StrategyAttempt(strategy string, outcome string, duration time.Duration) {
	r.strategyAttempts.WithLabelValues(strategy, outcome).Inc()
	r.strategyDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// CacheLookup records a result cache hit or miss
func (r *Recorder) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// PipelineCompleted records a finished search
func (r *Recorder) PipelineCompleted(strategy string, duration time.Duration) {
	r.pipelineDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// EventDropped records an undelivered completion event
func (r *Recorder) EventDropped(reason string) {
	r.eventsDropped.WithLabelValues(reason).Inc()
}

// WatchCache exports the cache health snapshot on every scrape
func (r *Recorder) WatchCache(health interfaces.CacheHealth) {
	r.registry.MustRegister(&cacheCollector{health: health})
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

var (
	cacheReachableDesc = prometheus.NewDesc(
		namespace+"_cache_reachable",
		"Whether the shared cache is reachable",
		[]string{"backend"},
		nil,
	)
	cacheKeysDesc = prometheus.NewDesc(
		namespace+"_cache_keys",
		"Keys held by the active cache backend",
		[]string{"backend"},
		nil,
	)
	cacheMemoryDesc = prometheus.NewDesc(
		namespace+"_cache_memory_bytes",
		"Memory used by the active cache backend",
		[]string{"backend"},
		nil,
	)
)

// cacheCollector reads the cache status each time metrics are scraped
type cacheCollector struct {
	health interfaces.CacheHealth
}

// Describe sends the metric descriptors to the channel
func (c *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cacheReachableDesc
	ch <- cacheKeysDesc
	ch <- cacheMemoryDesc
}

// Collect emits the current cache status as gauges
func (c *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	status := c.health.Status(ctx)

	reachable := 0.0
	if status.Reachable {
		reachable = 1
	}
	ch <- prometheus.MustNewConstMetric(cacheReachableDesc, prometheus.GaugeValue, reachable, status.Backend)
	ch <- prometheus.MustNewConstMetric(cacheKeysDesc, prometheus.GaugeValue, float64(status.Keys), status.Backend)
	ch <- prometheus.MustNewConstMetric(cacheMemoryDesc, prometheus.GaugeValue, float64(status.MemoryBytes), status.Backend)
}
