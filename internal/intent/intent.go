// Package intent classifies user messages into the closed intent set, with
// a primary model capability and a sticky keyword-scoring fallback.
package intent

// Intent is the coarse category of user goal. The set is closed; anything
// unrecognized falls through the dispatcher's default branch.
type Intent string

const (
	Simulation    Intent = "simulation_credit"
	Request       Intent = "demande_credit"
	ProductInfo   Intent = "information_produit"
	FinancialCalc Intent = "calcul_financier"
	Support       Intent = "support_client"
	Modification  Intent = "modification_simulation"

	Unknown Intent = "unknown"
)

// order fixes the declaration order used for deterministic tie-breaks.
var order = []Intent{
	Simulation,
	Request,
	ProductInfo,
	FinancialCalc,
	Support,
	Modification,
}

// Parse maps a classifier label onto the closed set.
func Parse(label string) Intent {
	for _, it := range order {
		if string(it) == label {
			return it
		}
	}
	return Unknown
}
