// Package metrics provides Prometheus metrics for the Pulse ranking engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion metrics
	eventsIngested  prometheus.Counter
	eventsDuplicate prometheus.Counter
	eventsDropped   prometheus.Counter
	eventsAppended  prometheus.Counter

	// Ranking compute metrics, labeled by surface
	// (momentum_feed, scoreboard, viral_pack, for_you).
	rankingLatency   *prometheus.HistogramVec
	fixtureFallbacks *prometheus.CounterVec

	// Weekly cache metrics, labeled by cache (scoreboard, viral_pack).
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	cacheUpsertErrors *prometheus.CounterVec

	// Feed health snapshot gauges
	feedRisingCount    prometheus.Gauge
	feedSponsoredCount prometheus.Gauge

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerErrors            prometheus.Counter
	workerProcessingLatency prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     prometheus.Counter

	// Datastore gauges
	catalogSize prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pulse",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_ingested_total",
		Help:      "Engagement events accepted for ingestion",
	})
	m.eventsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_duplicate_total",
		Help:      "Engagement events rejected as duplicates",
	})
	m.eventsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_dropped_total",
		Help:      "Engagement events dropped due to backpressure",
	})
	m.eventsAppended = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_appended_total",
		Help:      "Engagement events written to the event log",
	})

	m.rankingLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_latency_milliseconds",
		Help:      "End-to-end ranking compute latency per surface",
		Buckets:   m.histogramBuckets,
	}, []string{"surface"})
	m.fixtureFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fixture_fallbacks_total",
		Help:      "Requests served from the fixture dataset after upstream failure",
	}, []string{"surface"})

	m.cacheHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "weekly_cache_hits_total",
		Help:      "Weekly cache hits",
	}, []string{"cache"})
	m.cacheMisses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "weekly_cache_misses_total",
		Help:      "Weekly cache misses",
	}, []string{"cache"})
	m.cacheUpsertErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "weekly_cache_upsert_errors_total",
		Help:      "Best-effort weekly cache upserts that failed",
	}, []string{"cache"})

	m.feedRisingCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feed_rising_count",
		Help:      "Items in the most recent momentum feed",
	})
	m.feedSponsoredCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feed_sponsored_eligible_count",
		Help:      "Sponsored-eligible items in the most recent momentum feed",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current ingest queue depth",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Ingest queue capacity",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization",
		Help:      "Ingest queue depth over capacity",
	})
	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueues_total",
		Help:      "Events enqueued",
	})
	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeues_total",
		Help:      "Events dequeued",
	})
	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Failed enqueue attempts",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Configured ingest workers",
	})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Event-log append failures in workers",
	})
	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Per-event worker processing latency",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration by endpoint, method and status",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
	m.httpRateLimited = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_rate_limited_total",
		Help:      "Requests rejected by the per-client rate limiter",
	})

	m.catalogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_size",
		Help:      "Catalog items seen on the last read",
	})
}

// Package-level helpers delegating to the global manager.

// RecordEventIngested increments the ingested events counter.
func RecordEventIngested() { globalManager.eventsIngested.Inc() }

// RecordEventDuplicate increments the duplicate events counter.
func RecordEventDuplicate() { globalManager.eventsDuplicate.Inc() }

// RecordEventDropped increments the dropped events counter.
func RecordEventDropped() { globalManager.eventsDropped.Inc() }

// RecordEventAppended increments the event-log append counter.
func RecordEventAppended() { globalManager.eventsAppended.Inc() }

// RecordRankingLatency records ranking compute latency for a surface.
func RecordRankingLatency(surface string, latencyMs float64) {
	globalManager.rankingLatency.WithLabelValues(surface).Observe(latencyMs)
}

// RecordFixtureFallback increments the fixture fallback counter for a surface.
func RecordFixtureFallback(surface string) {
	globalManager.fixtureFallbacks.WithLabelValues(surface).Inc()
}

// RecordCacheHit increments the weekly cache hit counter.
func RecordCacheHit(cache string) { globalManager.cacheHits.WithLabelValues(cache).Inc() }

// RecordCacheMiss increments the weekly cache miss counter.
func RecordCacheMiss(cache string) { globalManager.cacheMisses.WithLabelValues(cache).Inc() }

// RecordCacheUpsertError increments the weekly cache upsert error counter.
func RecordCacheUpsertError(cache string) {
	globalManager.cacheUpsertErrors.WithLabelValues(cache).Inc()
}

// UpdateFeedHealth sets the feed health gauges from the latest feed build.
func UpdateFeedHealth(rising, sponsored int) {
	globalManager.feedRisingCount.Set(float64(rising))
	globalManager.feedSponsoredCount.Set(float64(sponsored))
}

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets the queue utilization gauge.
func UpdateQueueUtilization(utilization float64) { globalManager.queueUtilization.Set(utilization) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueues.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeues.Inc() }

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateWorkerCount sets the worker count gauge.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// RecordWorkerProcessingLatency records per-event worker latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// RecordRateLimited increments the rate-limited request counter.
func RecordRateLimited() { globalManager.httpRateLimited.Inc() }

// UpdateCatalogSize sets the catalog size gauge.
func UpdateCatalogSize(count int) { globalManager.catalogSize.Set(float64(count)) }

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
