package fieldset

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldset_cache_hits_total",
		Help: "Field evaluations served from the dependency-scoped cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldset_cache_misses_total",
		Help: "Field evaluations computed because no cache entry matched",
	})

	conditionEvaluations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldset_condition_evaluations_total",
		Help: "Dependency rules interpreted against form state",
	})

	validationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldset_validation_failures_total",
			Help: "Validation rule failures by rule kind",
		},
		[]string{"kind"},
	)
)

// Stats are per-engine counters, useful to observe cache behaviour in tests and hosts.
type Stats struct {
	CacheHits            int64 `json:"cache_hits"`
	CacheMisses          int64 `json:"cache_misses"`
	ConditionEvaluations int64 `json:"condition_evaluations"`
	CacheEntries         int   `json:"cache_entries"`
}
