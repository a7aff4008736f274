// Package metrics provides the centralized Prometheus metrics registry
// for the Calcutta engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BidsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calcutta",
		Name:      "bids_recorded_total",
		Help:      "Total number of auction bids recorded",
	}, []string{"division"})
	BidsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calcutta",
		Name:      "bids_rejected_total",
		Help:      "Total number of auction bids rejected by validation",
	}, []string{"division"})
	PathQueriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "calcutta",
		Name:      "path_queries_total",
		Help:      "Total number of team path queries served",
	})
	RecomputesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calcutta",
		Name:      "recomputes_total",
		Help:      "Total number of atomic valuation recomputes",
	}, []string{"division"})
	SimulationRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "calcutta",
		Name:      "simulation_runs_total",
		Help:      "Total number of Monte Carlo odds generation runs",
	})
)

// Gauge metrics
var (
	EstimatedPool = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "calcutta",
		Name:      "estimated_pool",
		Help:      "Current estimated auction pool per division",
	}, []string{"division"})
	TeamsSold = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "calcutta",
		Name:      "teams_sold",
		Help:      "Number of teams sold so far per division",
	}, []string{"division"})
	SlotCacheSize = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "calcutta",
		Name:      "slot_cache_size",
		Help:      "Memoized slot resolutions held for the active forest",
	}, []string{"division"})
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "calcutta",
		Name:      "websocket_clients",
		Help:      "Connected auction-night websocket clients",
	})
)

// Histogram metrics
var (
	RecomputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "calcutta",
		Name:      "recompute_duration_seconds",
		Help:      "Duration of atomic valuation recomputes in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "calcutta",
		Name:      "simulation_duration_seconds",
		Help:      "Duration of Monte Carlo odds generation runs in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})
	PathQueryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "calcutta",
		Name:      "path_query_duration_seconds",
		Help:      "Duration of team path queries in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(BidsRecordedTotal)
		registry.MustRegister(BidsRejectedTotal)
		registry.MustRegister(PathQueriesTotal)
		registry.MustRegister(RecomputesTotal)
		registry.MustRegister(SimulationRunsTotal)

		registry.MustRegister(EstimatedPool)
		registry.MustRegister(TeamsSold)
		registry.MustRegister(SlotCacheSize)
		registry.MustRegister(WebsocketClients)

		registry.MustRegister(RecomputeDuration)
		registry.MustRegister(SimulationDuration)
		registry.MustRegister(PathQueryDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBid records an accepted auction bid.
func RecordBid(division string) {
	BidsRecordedTotal.WithLabelValues(division).Inc()
}

// RecordBidRejected records a rejected auction bid.
func RecordBidRejected(division string) {
	BidsRejectedTotal.WithLabelValues(division).Inc()
}

// RecordPathQuery records a served path query.
func RecordPathQuery(durationSeconds float64) {
	PathQueriesTotal.Inc()
	PathQueryDuration.Observe(durationSeconds)
}

// RecordRecompute records an atomic valuation refresh.
func RecordRecompute(division string, durationSeconds float64, estimatedPool float64, sold int) {
	RecomputesTotal.WithLabelValues(division).Inc()
	RecomputeDuration.Observe(durationSeconds)
	EstimatedPool.WithLabelValues(division).Set(estimatedPool)
	TeamsSold.WithLabelValues(division).Set(float64(sold))
}

// RecordSimulation records a Monte Carlo odds generation run.
func RecordSimulation(durationSeconds float64) {
	SimulationRunsTotal.Inc()
	SimulationDuration.Observe(durationSeconds)
}
