package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialogue_turns_processed_total",
			Help: "Total number of processed turns by resolved intent",
		},
		[]string{"intent"},
	)

	TurnsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialogue_turns_rejected_total",
			Help: "Total number of rejected turns by error code",
		},
		[]string{"error_code"},
	)

	LowConfidenceTurns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dialogue_low_confidence_turns_total",
			Help: "Turns answered with a clarification because confidence was below threshold",
		},
	)

	FallbackActivations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dialogue_classifier_fallback_activations_total",
			Help: "Times the intent resolver flipped or re-entered the fallback path",
		},
	)

	DegradedExtractions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dialogue_degraded_extractions_total",
			Help: "Turns where entity extraction degraded to the keyword heuristics",
		},
	)

	SimulationsComputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dialogue_simulations_computed_total",
			Help: "Amortization simulations computed and stored",
		},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dialogue_turn_duration_seconds",
			Help: "Duration of turn processing in seconds",
		},
		[]string{"intent"},
	)
)
