package dialogue

import "credit-assist/internal/entity"

// Product is one entry of the credit catalog.
type Product struct {
	Type        entity.ProductType `json:"type"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Features    []string           `json:"features"`
	Advantages  []string           `json:"advantages"`
	MinRate     float64            `json:"min_rate"`
	MaxRate     float64            `json:"max_rate"`
}

// RateBand is the advertised rate range of one product.
type RateBand struct {
	Type    entity.ProductType `json:"type"`
	Name    string             `json:"name"`
	MinRate float64            `json:"min_rate"`
	MaxRate float64            `json:"max_rate"`
}

// catalog is the fixed product sheet set. Order is the display order.
var catalog = []Product{
	{
		Type:        entity.ProductPersonnel,
		Name:        "Crédit Personnel",
		Description: "Un crédit flexible pour tous vos projets personnels",
		Features: []string{
			"Montant : 1 000€ à 75 000€",
			"Durée : 12 à 84 mois",
			"Taux : 4.5% à 7.2%",
		},
		Advantages: []string{
			"Usage libre",
			"Délai de réponse rapide",
			"Assurance optionnelle",
		},
		MinRate: 4.5,
		MaxRate: 7.2,
	},
	{
		Type:        entity.ProductImmobilier,
		Name:        "Crédit Immobilier",
		Description: "Le financement idéal pour votre projet immobilier",
		Features: []string{
			"Montant : 50 000€ à 1 500 000€",
			"Durée : 7 à 25 ans",
			"Taux : 2.8% à 4.1%",
		},
		Advantages: []string{
			"Taux avantageux",
			"Durée longue possible",
			"Assurance obligatoire incluse",
		},
		MinRate: 2.8,
		MaxRate: 4.1,
	},
	{
		Type:        entity.ProductAutomobile,
		Name:        "Crédit Automobile",
		Description: "Financez votre véhicule en toute simplicité",
		Features: []string{
			"Montant : 5 000€ à 100 000€",
			"Durée : 12 à 84 mois",
			"Taux : 3.2% à 5.8%",
		},
		Advantages: []string{
			"Taux compétitifs",
			"Délai de réponse rapide",
			"Financement 100% possible",
		},
		MinRate: 3.2,
		MaxRate: 5.8,
	},
	{
		Type:        entity.ProductTravaux,
		Name:        "Crédit Travaux",
		Description: "Réalisez vos travaux de rénovation",
		Features: []string{
			"Montant : 3 000€ à 50 000€",
			"Durée : 12 à 60 mois",
			"Taux : 5.1% à 8.3%",
		},
		Advantages: []string{
			"Financement des travaux",
			"Devis obligatoire",
			"Assurance optionnelle",
		},
		MinRate: 5.1,
		MaxRate: 8.3,
	},
}

// Catalog returns the product sheets in display order.
func Catalog() []Product {
	out := make([]Product, len(catalog))
	copy(out, catalog)
	return out
}

// LookupProduct finds the sheet for a product type. The renovation type has
// no dedicated sheet and resolves to nothing.
func LookupProduct(pt entity.ProductType) (Product, bool) {
	for _, p := range catalog {
		if p.Type == pt {
			return p, true
		}
	}
	return Product{}, false
}

// Rates returns the advertised rate bands per product.
func Rates() []RateBand {
	out := make([]RateBand, 0, len(catalog))
	for _, p := range catalog {
		out = append(out, RateBand{
			Type:    p.Type,
			Name:    p.Name,
			MinRate: p.MinRate,
			MaxRate: p.MaxRate,
		})
	}
	return out
}
