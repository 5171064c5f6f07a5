package entity

// Domain ranges. Out-of-range values are dropped from the validated set,
// never clamped and never reported as errors.
const (
	MinAmount = 1000.0
	MaxAmount = 1500000.0

	MinDurationYears = 1
	MaxDurationYears = 25

	MinInterestRate = 1.0
	MaxInterestRate = 15.0

	MinIncome = 1000.0
	MaxIncome = 50000.0
)

var validProducts = map[ProductType]bool{
	ProductPersonnel:  true,
	ProductImmobilier: true,
	ProductAutomobile: true,
	ProductTravaux:    true,
	ProductRenovation: true,
}

// Validate returns the subset of entities within their domain ranges.
func Validate(raw Set) Set {
	var out Set

	if raw.Amount != nil && *raw.Amount >= MinAmount && *raw.Amount <= MaxAmount {
		out.Amount = raw.Amount
	}
	if raw.DurationYears != nil && *raw.DurationYears >= MinDurationYears && *raw.DurationYears <= MaxDurationYears {
		out.DurationYears = raw.DurationYears
	}
	if raw.ProductType != nil && validProducts[*raw.ProductType] {
		out.ProductType = raw.ProductType
	}
	if raw.InterestRate != nil && *raw.InterestRate >= MinInterestRate && *raw.InterestRate <= MaxInterestRate {
		out.InterestRate = raw.InterestRate
	}
	if raw.Insurance != nil {
		out.Insurance = raw.Insurance
	}
	if raw.Income != nil && *raw.Income >= MinIncome && *raw.Income <= MaxIncome {
		out.Income = raw.Income
	}

	return out
}

// extractionConfidence scores one pass: validation ratio weighted 0.7 plus
// an important-entity bonus weighted 0.3, capped at 1.0. Empty raw
// extraction scores 0.
func extractionConfidence(raw, validated Set) float64 {
	rawCount := raw.Count()
	if rawCount == 0 {
		return 0.0
	}

	ratio := float64(validated.Count()) / float64(rawCount)

	important := 0
	if validated.Amount != nil {
		important++
	}
	if validated.DurationYears != nil {
		important++
	}
	if validated.ProductType != nil {
		important++
	}

	confidence := ratio*0.7 + float64(important)/3*0.3
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
