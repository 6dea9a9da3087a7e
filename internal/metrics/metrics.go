// Package metrics exposes Prometheus instrumentation for the relationship
// engine. Label sets are chosen to keep cardinality bounded:
//
//   - platform:  the originating channel identifier (small, known set)
//   - sentiment: positive | negative | neutral
//   - from/to:   relationship tiers (five known values)
//
// This package only registers collectors; exposition (an HTTP /metrics
// endpoint or a push gateway) is the embedding process's concern, since the
// engine owns no network surface. All collectors are safe for concurrent use.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Interactions counts classified interactions by platform and sentiment.
	Interactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_interactions_total",
			Help: "Total number of classified user interactions.",
		},
		[]string{"platform", "sentiment"},
	)

	// LevelTransitions counts relationship level changes by old and new tier.
	LevelTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_level_transitions_total",
			Help: "Total number of relationship level transitions.",
		},
		[]string{"from", "to"},
	)

	// TrackedRelationships gauges the number of relationship records held.
	TrackedRelationships = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "companion_relationships_tracked",
			Help: "Current number of tracked relationship records.",
		},
	)
)

func init() {
	prometheus.MustRegister(Interactions, LevelTransitions, TrackedRelationships)
}
