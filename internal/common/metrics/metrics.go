// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScoringPassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rag_scoring_passes_total",
			Help: "Total number of scoring passes by outcome",
		},
		[]string{"outcome"},
	)

	ScoringPassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "rag_scoring_pass_duration_seconds",
			Help: "Duration of a single-contractor scoring pass in seconds",
		},
	)

	BatchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rag_batch_failures_total",
			Help: "Total number of per-contractor failures inside batch operations",
		},
		[]string{"operation"},
	)

	OverridesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rag_overrides_total",
			Help: "Total number of manual domain category overrides",
		},
		[]string{"domain", "category"},
	)

	HistoryRetriesExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rag_history_retries_exhausted_total",
			Help: "Total number of history appends abandoned after bounded retries",
		},
	)

	UpstreamFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rag_upstream_fallbacks_total",
			Help: "Total number of domain calculators degraded to neutral defaults",
		},
		[]string{"feed"},
	)
)
