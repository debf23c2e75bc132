package providers

import (
	"freegames/internal/structures"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	SetTrackedGames(scope string, count int)
	IncPasses(scope string)
	AddNewOffers(source string, count int)
	IncFetchErrors(source string)
	AddEvictions(scope string, count int)
	IncDeliveries(status string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	trackedGames        *prometheus.GaugeVec
	passesTotal         *prometheus.CounterVec
	newOffersTotal      *prometheus.CounterVec
	fetchErrorsTotal    *prometheus.CounterVec
	evictionsTotal      *prometheus.CounterVec
	deliveriesTotal     *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetTrackedGames(scope string, count int) {
	m.trackedGames.WithLabelValues(scope).Set(float64(count))
}

func (m *MetricsProvider) IncPasses(scope string) {
	m.passesTotal.WithLabelValues(scope).Inc()
}

func (m *MetricsProvider) AddNewOffers(source string, count int) {
	m.newOffersTotal.WithLabelValues(source).Add(float64(count))
}

func (m *MetricsProvider) IncFetchErrors(source string) {
	m.fetchErrorsTotal.WithLabelValues(source).Inc()
}

func (m *MetricsProvider) AddEvictions(scope string, count int) {
	m.evictionsTotal.WithLabelValues(scope).Add(float64(count))
}

func (m *MetricsProvider) IncDeliveries(status string) {
	m.deliveriesTotal.WithLabelValues(status).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fgn_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fgn_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fgn_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fgn_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fgn_persistence_duration_seconds",
			Help:    "Duration of registry writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		trackedGames: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fgn_tracked_games",
			Help: "Number of games tracked per scope",
		}, []string{"scope"}),

		passesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fgn_passes_total",
			Help: "Total number of check passes per scope",
		}, []string{"scope"}),

		newOffersTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fgn_new_offers_total",
			Help: "Total number of new offers found per source",
		}, []string{"source"}),

		fetchErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fgn_fetch_errors_total",
			Help: "Total number of failed fetches per source",
		}, []string{"source"}),

		evictionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fgn_evictions_total",
			Help: "Total number of records evicted after the cooldown",
		}, []string{"scope"}),

		deliveriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fgn_deliveries_total",
			Help: "Total number of offer deliveries by outcome",
		}, []string{"status"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetTrackedGames(_ string, _ int)                  {}
func (n *noopMetrics) IncPasses(_ string)                               {}
func (n *noopMetrics) AddNewOffers(_ string, _ int)                     {}
func (n *noopMetrics) IncFetchErrors(_ string)                          {}
func (n *noopMetrics) AddEvictions(_ string, _ int)                     {}
func (n *noopMetrics) IncDeliveries(_ string)                           {}
