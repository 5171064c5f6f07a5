package intent

import (
	"context"
	"sync/atomic"

	"credit-assist/internal/capability"
	"credit-assist/internal/common/logger"
	"credit-assist/internal/common/metrics"
	"credit-assist/internal/entity"
)

// Understanding thresholds per mode. The fallback's score distribution is
// coarser and is not held to the primary's bar.
const (
	PrimaryThreshold  = 0.5
	FallbackThreshold = 0.1
)

// Resolution is one classification outcome. Entities and AllConfidences are
// populated only on the fallback path; in primary mode entity extraction is
// deferred to the entity resolver.
type Resolution struct {
	Intent         Intent
	Confidence     float64
	Entities       entity.Set
	AllConfidences map[Intent]float64
	UsedFallback   bool
}

// Resolver classifies with the primary capability and degrades to keyword
// scoring. The primary-to-fallback transition is one-way and sticky for the
// process lifetime; the flip is an atomic flag so concurrent first-failure
// detection stays safe without a lock on every classification.
type Resolver struct {
	primary  capability.Classifier
	keyword  *KeywordClassifier
	fallback atomic.Bool
	logger   logger.Logger
}

func NewResolver(primary capability.Classifier, log logger.Logger) *Resolver {
	r := &Resolver{
		primary: primary,
		keyword: NewKeywordClassifier(),
		logger:  log.With(map[string]interface{}{"component": "intent"}),
	}

	if primary == nil || !primary.Loaded() {
		r.fallback.Store(true)
		metrics.FallbackActivations.Inc()
		r.logger.Warn("primary classifier not loaded, starting in fallback mode", nil)
	}
	return r
}

// InFallback reports the current mode.
func (r *Resolver) InFallback() bool {
	return r.fallback.Load()
}

// Threshold returns the mode-dependent understanding threshold.
func (r *Resolver) Threshold() float64 {
	if r.fallback.Load() {
		return FallbackThreshold
	}
	return PrimaryThreshold
}

// Resolve classifies one message. A primary failure flips the mode
// permanently and re-issues this same call through the fallback path, so no
// result is lost.
func (r *Resolver) Resolve(ctx context.Context, text string) Resolution {
	if !r.fallback.Load() {
		cls, err := r.primary.Classify(ctx, text)
		if err == nil {
			return Resolution{
				Intent:     Parse(cls.Label),
				Confidence: cls.Confidence,
			}
		}

		r.logger.WithError(err).Warn("primary classifier failed, switching permanently to fallback", nil)
		r.fallback.Store(true)
		metrics.FallbackActivations.Inc()
	}

	it, conf, all := r.keyword.Classify(text)
	return Resolution{
		Intent:         it,
		Confidence:     conf,
		Entities:       r.keyword.ExtractEntities(text),
		AllConfidences: all,
		UsedFallback:   true,
	}
}

// FallbackEntities exposes the coarse entity heuristics for the degraded
// extraction path.
func (r *Resolver) FallbackEntities(text string) entity.Set {
	return r.keyword.ExtractEntities(text)
}
