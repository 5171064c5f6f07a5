// Package creditmath implements fixed-rate amortization and the simplified
// TAEG approximation used by the dialogue handlers. Pure functions, no state.
package creditmath

import "math"

// Simulation is one computed amortization result. Immutable once created.
type Simulation struct {
	Capital        float64 `json:"capital"`
	DurationYears  int     `json:"duration_years"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalRepaid    float64 `json:"total_repaid"`
	TotalInterest  float64 `json:"total_interest"`
}

// Simulate computes the standard fixed-rate amortization for the given
// capital, duration and annual rate in percent. Monetary results are rounded
// to 2 decimals. Callers must reject capital <= 0 or years <= 0 beforehand.
func Simulate(capital float64, years int, annualRatePercent float64) Simulation {
	r := annualRatePercent / 12 / 100
	n := float64(years * 12)
	payment := capital * r / (1 - math.Pow(1+r, -n))
	total := payment * n
	interest := total - capital

	return Simulation{
		Capital:        capital,
		DurationYears:  years,
		MonthlyPayment: round2(payment),
		TotalRepaid:    round2(total),
		TotalInterest:  round2(interest),
	}
}

// EffectiveRate returns a simplified TAEG approximation in percent, rounded
// to 2 decimals. This is not regulatory-grade IRR math; callers must not
// present it as compliant disclosure.
func EffectiveRate(capital float64, years int, annualRatePercent, filingFee, monthlyInsurance float64) float64 {
	r := annualRatePercent / 12 / 100
	n := float64(years * 12)
	payment := capital * r / (1 - math.Pow(1+r, -n))
	totalPaid := (payment+monthlyInsurance)*n + filingFee
	taeg := (math.Pow(totalPaid/capital, 1/float64(years)) - 1) * 100
	return round2(taeg)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
