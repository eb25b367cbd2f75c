package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the stats ingestion job

var (
	// Wiki metrics
	WikiFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lolstats_wiki_fetches_total",
			Help: "Total number of match-history page fetches",
		},
		[]string{"source", "status"},
	)

	WikiFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lolstats_wiki_fetch_duration_seconds",
			Help:    "Duration of match-history page fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	AggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lolstats_team_aggregations_total",
			Help: "Total number of team pick/ban aggregations by outcome",
		},
		[]string{"outcome"},
	)

	// Riot API metrics
	RiotCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lolstats_riot_api_calls_total",
			Help: "Total number of Riot API calls",
		},
		[]string{"endpoint", "status"},
	)

	RiotCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lolstats_riot_api_call_duration_seconds",
			Help:    "Duration of Riot API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lolstats_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lolstats_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lolstats_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lolstats_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// Sync metrics
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lolstats_sync_runs_total",
			Help: "Total number of update runs",
		},
		[]string{"type", "status"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lolstats_sync_duration_seconds",
			Help:    "Duration of update runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"type"},
	)

	TeamsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lolstats_teams_updated_total",
			Help: "Total number of team stats rows written",
		},
	)

	PlayersUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lolstats_players_updated_total",
			Help: "Total number of player rows written",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lolstats_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lolstats_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulSync = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lolstats_last_successful_sync_timestamp",
			Help: "Timestamp of last successful update run",
		},
	)
)

// RecordWikiFetch records a match-history page fetch; source is "network" or "cache"
func RecordWikiFetch(source, status string, duration float64) {
	WikiFetchesTotal.WithLabelValues(source, status).Inc()
	if source == "network" {
		WikiFetchDuration.Observe(duration)
	}
}

// RecordAggregation records the outcome of one team aggregation
func RecordAggregation(outcome string) {
	AggregationsTotal.WithLabelValues(outcome).Inc()
}

// RecordRiotCall records a Riot API call metric
func RecordRiotCall(endpoint, status string, duration float64) {
	RiotCallsTotal.WithLabelValues(endpoint, status).Inc()
	RiotCallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordSync records an update run
func RecordSync(syncType, status string, duration float64) {
	SyncRunsTotal.WithLabelValues(syncType, status).Inc()
	SyncDuration.WithLabelValues(syncType).Observe(duration)

	if status == "success" {
		LastSuccessfulSync.SetToCurrentTime()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
