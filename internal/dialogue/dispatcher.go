// Package dialogue orchestrates one conversational turn: intent
// resolution, entity extraction, context bookkeeping and reply dispatch.
package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"credit-assist/internal/common/config"
	"credit-assist/internal/common/errors"
	"credit-assist/internal/common/logger"
	"credit-assist/internal/common/metrics"
	"credit-assist/internal/common/observability"
	"credit-assist/internal/convctx"
	"credit-assist/internal/creditmath"
	"credit-assist/internal/entity"
	"credit-assist/internal/intent"
)

// degradedEntityConfidence is reported when the full extractor fails and
// the coarse heuristics stand in.
const degradedEntityConfidence = 0.5

// Result is the outcome of one processed turn.
type Result struct {
	Intent           intent.Intent   `json:"intent"`
	Confidence       float64         `json:"confidence"`
	Entities         entity.Set      `json:"entities"`
	EntityConfidence float64         `json:"entity_confidence"`
	Response         string          `json:"response"`
	Context          convctx.Context `json:"context"`
}

// Dispatcher wires the pipeline together. All state lives in the store;
// the dispatcher itself is safe for concurrent use.
type Dispatcher struct {
	resolver  *intent.Resolver
	extractor *entity.Extractor
	store     convctx.Store
	cfg       config.Dialogue
	obs       *observability.Observability
	logger    logger.Logger
}

func NewDispatcher(
	resolver *intent.Resolver,
	extractor *entity.Extractor,
	store convctx.Store,
	cfg config.Dialogue,
	obs *observability.Observability,
	log logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		resolver:  resolver,
		extractor: extractor,
		store:     store,
		cfg:       cfg,
		obs:       obs,
		logger:    log.With(map[string]interface{}{"component": "dialogue"}),
	}
}

// Process runs one turn for userID. Empty messages are rejected before
// any context mutation.
func (d *Dispatcher) Process(ctx context.Context, message, userID string) (*Result, error) {
	start := time.Now()

	message = strings.TrimSpace(message)
	if message == "" {
		metrics.TurnsRejected.WithLabelValues(string(errors.ErrCodeEmptyMessage)).Inc()
		return nil, errors.NewEmptyMessageError(userID)
	}

	if err := d.store.RecordTurn(ctx, userID); err != nil {
		metrics.TurnsRejected.WithLabelValues(string(errors.ErrCodeContextStoreFailed)).Inc()
		return nil, err
	}

	res := d.resolver.Resolve(ctx, message)
	ents, entConf := d.resolveEntities(ctx, message, res)

	if err := d.store.UpdateLast(ctx, userID, res.Intent, ents); err != nil {
		metrics.TurnsRejected.WithLabelValues(string(errors.ErrCodeContextStoreFailed)).Inc()
		return nil, err
	}

	var response string
	if res.Confidence < d.resolver.Threshold() {
		metrics.LowConfidenceTurns.Inc()
		d.logger.Info("turn below understanding threshold", map[string]interface{}{
			"user_id":    userID,
			"intent":     string(res.Intent),
			"confidence": res.Confidence,
		})
		response = replyClarification
	} else {
		response = d.dispatch(ctx, userID, res.Intent, ents)
	}

	snapshot, err := d.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics.TurnsProcessed.WithLabelValues(string(res.Intent)).Inc()
	metrics.TurnDuration.WithLabelValues(string(res.Intent)).Observe(time.Since(start).Seconds())
	if d.obs != nil {
		d.obs.RecordTurn(ctx, string(res.Intent))
		d.obs.RecordTurnDuration(ctx, time.Since(start), string(res.Intent))
	}

	return &Result{
		Intent:           res.Intent,
		Confidence:       res.Confidence,
		Entities:         ents,
		EntityConfidence: entConf,
		Response:         response,
		Context:          snapshot,
	}, nil
}

// resolveEntities picks the entity source per mode. Fallback bundles its
// own coarse set; primary mode runs the full extractor and degrades to
// the heuristics when it fails.
func (d *Dispatcher) resolveEntities(ctx context.Context, message string, res intent.Resolution) (entity.Set, float64) {
	if res.UsedFallback {
		return res.Entities, res.Confidence
	}

	ext, err := d.extractor.ExtractWithValidation(ctx, message)
	if err != nil {
		metrics.DegradedExtractions.Inc()
		d.logger.WithError(err).Warn("entity extraction failed, using keyword heuristics", nil)
		return d.resolver.FallbackEntities(message), degradedEntityConfidence
	}
	return ext.Validated, ext.Confidence
}

func (d *Dispatcher) dispatch(ctx context.Context, userID string, it intent.Intent, ents entity.Set) string {
	switch it {
	case intent.Simulation:
		return d.handleSimulation(ctx, userID, ents)
	case intent.Request:
		return replyCreditRequest
	case intent.ProductInfo:
		return d.handleProductInfo(ents)
	case intent.FinancialCalc:
		return d.handleFinancialCalc(ctx, userID, ents)
	case intent.Support:
		return replySupport
	case intent.Modification:
		return d.handleModification(ctx, userID, ents)
	default:
		return replyNotUnderstood
	}
}

func (d *Dispatcher) handleSimulation(ctx context.Context, userID string, ents entity.Set) string {
	if missing := missingSimulationParams(ents); len(missing) > 0 {
		return formatMissingParams(missing)
	}

	capital := *ents.Amount
	years := *ents.DurationYears
	if capital <= 0 || years <= 0 {
		return formatInvalidParams("montant et durée doivent être strictement positifs")
	}

	sim := creditmath.Simulate(capital, years, d.cfg.BaselineAnnualRate)
	if err := d.store.AppendSimulation(ctx, userID, sim); err != nil {
		d.logger.WithError(err).Error("failed to store simulation", map[string]interface{}{"user_id": userID})
	}
	metrics.SimulationsComputed.Inc()

	response := formatSimulation(sim)
	if !ents.WithInsurance() && ents.ProductOrDefault() != entity.ProductImmobilier {
		response += "\n\n" + replyUpsell
	}
	return response
}

func (d *Dispatcher) handleProductInfo(ents entity.Set) string {
	if ents.ProductType != nil {
		if p, ok := LookupProduct(*ents.ProductType); ok {
			return formatProductSheet(p)
		}
	}
	return formatCatalogDigest(catalog)
}

func (d *Dispatcher) handleFinancialCalc(ctx context.Context, userID string, ents entity.Set) string {
	c, err := d.store.Get(ctx, userID)
	if err != nil {
		d.logger.WithError(err).Error("failed to read context for cost breakdown", map[string]interface{}{"user_id": userID})
	} else if last := c.LastSimulation(); last != nil {
		return formatCostBreakdown(*last, d.cfg.FilingFee)
	}

	if ents.Amount == nil || ents.DurationYears == nil {
		return replyCalcNeedsInfo
	}

	capital := *ents.Amount
	years := *ents.DurationYears
	if capital <= 0 || years <= 0 {
		return formatInvalidParams("montant et durée doivent être strictement positifs")
	}

	taeg := creditmath.EffectiveRate(capital, years, d.cfg.BaselineAnnualRate, 0, 0)
	return formatDirectTAEG(capital, years, d.cfg.BaselineAnnualRate, taeg)
}

// handleModification merges the newest entities over the last stored
// simulation's capital and duration, recomputes and reports the deltas.
func (d *Dispatcher) handleModification(ctx context.Context, userID string, ents entity.Set) string {
	c, err := d.store.Get(ctx, userID)
	if err != nil {
		return formatModificationFailed(err.Error())
	}

	last := c.LastSimulation()
	if last == nil {
		return replyNoSimulation
	}

	capital := last.Capital
	years := last.DurationYears
	if ents.Amount != nil {
		capital = *ents.Amount
	}
	if ents.DurationYears != nil {
		years = *ents.DurationYears
	}
	if capital <= 0 || years <= 0 {
		return formatModificationFailed("montant et durée doivent être strictement positifs")
	}

	updated := creditmath.Simulate(capital, years, d.cfg.BaselineAnnualRate)
	if err := d.store.AppendSimulation(ctx, userID, updated); err != nil {
		d.logger.WithError(err).Error("failed to store modified simulation", map[string]interface{}{"user_id": userID})
	}
	metrics.SimulationsComputed.Inc()

	return formatModification(*last, updated)
}

// Summary exposes the context read-model.
func (d *Dispatcher) Summary(ctx context.Context, userID string) (convctx.Summary, error) {
	return d.store.Summary(ctx, userID)
}

// Products returns the catalog.
func (d *Dispatcher) Products() []Product {
	return Catalog()
}

// Rates returns the advertised rate bands.
func (d *Dispatcher) Rates() []RateBand {
	return Rates()
}

// Healthy reports the pipeline's degradation state for health endpoints.
func (d *Dispatcher) Healthy() (bool, string) {
	if d.resolver.InFallback() {
		return true, fmt.Sprintf("degraded: keyword fallback active (threshold %.1f)", d.resolver.Threshold())
	}
	return true, "ok"
}
