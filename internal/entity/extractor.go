package entity

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"credit-assist/internal/capability"
	"credit-assist/internal/common/logger"
)

// durationUnit marks how a matched duration value is expressed.
type durationUnit int

const (
	unitYears durationUnit = iota
	unitMonths
)

// amountPattern is one strategy of the amount cascade. Most specific first;
// the first pattern that matches wins.
type amountPattern struct {
	re *regexp.Regexp
	// kiloShorthand expands the captured number by 1000 ("50k€").
	kiloShorthand bool
}

type durationPattern struct {
	re   *regexp.Regexp
	unit durationUnit
}

var (
	amountPatterns = []amountPattern{
		{re: regexp.MustCompile(`(?i)\b(\d{1,3}(?:\s\d{3})+)\s*(?:€|euros?)`)},
		{re: regexp.MustCompile(`(?i)\b(\d+)\s*k\s*(?:€|euros?)`), kiloShorthand: true},
		{re: regexp.MustCompile(`(?i)\b(\d+(?:[,.]\d+)?)\s*(?:€|euros?)`)},
	}

	durationPatterns = []durationPattern{
		{re: regexp.MustCompile(`(?i)\b(\d+)\s*(?:ans?|années?)\b`), unit: unitYears},
		{re: regexp.MustCompile(`(?i)\b(\d+)\s*mois\b`), unit: unitMonths},
		{re: regexp.MustCompile(`(?i)\bsur\s*(\d+)\s*(?:ans?|années?)\b`), unit: unitYears},
	}

	productPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:crédit|prêt)\s+(personnel|immobilier|automobile|travaux|rénovation)`),
		regexp.MustCompile(`(?i)(personnel|immobilier|automobile|travaux|rénovation)\s+(?:crédit|prêt)`),
		regexp.MustCompile(`(?i)prêt\s+(auto|voiture)\b`),
		regexp.MustCompile(`(?i)crédit\s+(auto|voiture)\b`),
	}

	ratePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(\d+(?:[,.]\d+)?)\s*%`),
		regexp.MustCompile(`(?i)\b(\d+(?:[,.]\d+)?)\s*pour\s*cent\b`),
		regexp.MustCompile(`(?i)taux\s*(?:de\s*)?(\d+(?:[,.]\d+)?)\s*%`),
	}

	insurancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(avec|sans)\s*assurance`),
		regexp.MustCompile(`(?i)assurance\s*(?:emprunteur\s*)?(avec|sans)\b`),
		regexp.MustCompile(`(?i)\b(oui|non)\b(?:\s*pour\s*l'assurance)?`),
	}

	incomePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(\d+(?:[,.]\d+)?)\s*(?:€|euros?)\s*(?:par\s*mois|mensuels?)\b`),
		regexp.MustCompile(`(?i)\b(\d+(?:[,.]\d+)?)\s*(?:€|euros?)\s*/\s*mois\b`),
		regexp.MustCompile(`(?i)revenus?\s*(?:de\s*)?(\d+(?:[,.]\d+)?)\s*(?:€|euros?)`),
	}

	nerNumber = regexp.MustCompile(`\d+(?:[,.]\d+)?`)

	// productSynonyms folds colloquial forms onto catalog product types.
	productSynonyms = map[string]ProductType{
		"auto":       ProductAutomobile,
		"voiture":    ProductAutomobile,
		"rénovation": ProductRenovation,
	}
)

// Extraction is the result of one extract-and-validate pass.
type Extraction struct {
	Raw        Set     `json:"raw"`
	Validated  Set     `json:"validated"`
	Confidence float64 `json:"confidence"`
}

// Extractor combines the regex cascades with a second NER-derived pass.
type Extractor struct {
	tagger capability.Tagger
	logger logger.Logger
}

func NewExtractor(tagger capability.Tagger, log logger.Logger) *Extractor {
	return &Extractor{
		tagger: tagger,
		logger: log.With(map[string]interface{}{"component": "entity"}),
	}
}

// Extract runs the pattern cascades and then fills amount/duration from the
// NER tagger where the patterns found nothing. Patterns always win: they
// encode domain units the general tagger does not understand.
func (e *Extractor) Extract(ctx context.Context, text string) (Set, error) {
	set := extractPatterns(text)

	if e.tagger == nil || (set.Amount != nil && set.DurationYears != nil) {
		return set, nil
	}

	spans, err := e.tagger.Tag(ctx, text)
	if err != nil {
		return Set{}, err
	}
	fillFromSpans(&set, spans, text)
	return set, nil
}

// ExtractWithValidation extracts, validates and scores one message.
func (e *Extractor) ExtractWithValidation(ctx context.Context, text string) (Extraction, error) {
	raw, err := e.Extract(ctx, text)
	if err != nil {
		return Extraction{}, err
	}
	validated := Validate(raw)
	return Extraction{
		Raw:        raw,
		Validated:  validated,
		Confidence: extractionConfidence(raw, validated),
	}, nil
}

func extractPatterns(text string) Set {
	var set Set

	for _, p := range amountPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := parseNumber(m[1])
		if err != nil {
			continue
		}
		if p.kiloShorthand {
			v *= 1000
		}
		set.Amount = &v
		break
	}

	for _, p := range durationPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if p.unit == unitMonths {
			v = v / 12
		}
		set.DurationYears = &v
		break
	}

	for _, re := range productPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.ToLower(m[1])
		pt := ProductType(raw)
		if mapped, ok := productSynonyms[raw]; ok {
			pt = mapped
		}
		set.ProductType = &pt
		break
	}

	for _, re := range ratePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := parseNumber(m[1])
		if err != nil {
			continue
		}
		set.InterestRate = &v
		break
	}

	for _, re := range insurancePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		switch strings.ToLower(m[1]) {
		case "avec", "oui":
			set.Insurance = Bool(true)
		case "sans", "non":
			set.Insurance = Bool(false)
		}
		break
	}

	for _, re := range incomePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := parseNumber(m[1])
		if err != nil {
			continue
		}
		set.Income = &v
		break
	}

	return set
}

// fillFromSpans lets NER results fill amount or duration only when the
// pattern pass found nothing for that key.
func fillFromSpans(set *Set, spans []capability.Span, text string) {
	lower := strings.ToLower(text)
	hasDurationWord := strings.Contains(lower, "ans") ||
		strings.Contains(lower, "années") ||
		strings.Contains(lower, "mois")

	for _, span := range spans {
		switch span.Type {
		case "MONEY":
			if set.Amount != nil {
				continue
			}
			if m := nerNumber.FindString(span.Text); m != "" {
				if v, err := parseNumber(m); err == nil {
					set.Amount = &v
				}
			}
		case "CARDINAL":
			if set.DurationYears != nil || !hasDurationWord {
				continue
			}
			if v, err := strconv.Atoi(strings.TrimSpace(span.Text)); err == nil {
				set.DurationYears = &v
			}
		}
	}
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}
