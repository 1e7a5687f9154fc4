package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution outcomes used as the "outcome" label.
const (
	OutcomeExact     = "exact"
	OutcomeFallback  = "fallback"
	OutcomeWildcard  = "wildcard"
	OutcomeMiss      = "miss"
	OutcomeUnparsed  = "unparsed"
	OutcomeCacheHit  = "cache_hit"
	OutcomeCacheMiss = "cache_miss"
	OutcomeLocal     = "local"
	OutcomeDownload  = "download"
	OutcomeError     = "error"
)

// Metrics definitions
var (
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "winfeatures_resolutions_total",
		Help: "Import resolutions by outcome.",
	}, []string{"outcome"})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "winfeatures_diagnostics_total",
		Help: "Diagnostics reported by kind.",
	}, []string{"kind"})

	IndexKeys = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "winfeatures_index_keys",
		Help: "Number of qualified keys in the current catalog index.",
	})

	RequiredFeatures = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "winfeatures_required_features",
		Help: "Number of features required by the last resolution run.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "winfeatures_analysis_seconds",
		Help:    "Time spent on high-level tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	CatalogFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "winfeatures_catalog_fetch_total",
		Help: "Catalog acquisitions by source outcome.",
	}, []string{"outcome"})

	ScanCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "winfeatures_scan_cache_total",
		Help: "Per-file import cache lookups by outcome.",
	}, []string{"outcome"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "winfeatures_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
