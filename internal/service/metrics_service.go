package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API: HTTP
// traffic, board cache effectiveness and distribution run outcomes.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	distributions   prometheus.Counter
	applied         prometheus.Counter
	skipped         prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "board_cache_hit_ratio",
		Help: "Ratio of board cache hits to total lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "board_cache_hits_total",
		Help: "Total board cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "board_cache_misses_total",
		Help: "Total board cache misses",
	})

	distributions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "distribution_runs_total",
		Help: "Total fair-share distribution apply runs",
	})

	applied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "distribution_assignments_applied_total",
		Help: "Total shift assignments committed by the planner",
	})

	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "distribution_assignments_skipped_total",
		Help: "Total planner proposals skipped by the pre-write re-check",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHitRatio, cacheHits, cacheMisses, distributions, applied, skipped, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		distributions:   distributions,
		applied:         applied,
		skipped:         skipped,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheHit records a board cache hit and refreshes the hit ratio.
func (m *MetricsService) RecordCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
	atomic.AddUint64(&m.cacheHitCount, 1)
	m.updateRatio()
}

// RecordCacheMiss records a board cache miss and refreshes the hit ratio.
func (m *MetricsService) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
	atomic.AddUint64(&m.cacheMissCount, 1)
	m.updateRatio()
}

func (m *MetricsService) updateRatio() {
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// RecordDistribution records the outcome of one apply run.
func (m *MetricsService) RecordDistribution(applied, skipped int) {
	if m == nil {
		return
	}
	m.distributions.Inc()
	m.applied.Add(float64(applied))
	m.skipped.Add(float64(skipped))
}
