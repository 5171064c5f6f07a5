// Package entity extracts and validates the structured credit parameters
// found in free-form French messages.
package entity

// ProductType is the closed set of credit products.
type ProductType string

const (
	ProductPersonnel  ProductType = "personnel"
	ProductImmobilier ProductType = "immobilier"
	ProductAutomobile ProductType = "automobile"
	ProductTravaux    ProductType = "travaux"
	ProductRenovation ProductType = "renovation"
)

// Key names one recognized entity kind.
type Key string

const (
	KeyAmount       Key = "montant"
	KeyDuration     Key = "duree"
	KeyProductType  Key = "type_credit"
	KeyInterestRate Key = "taux_interet"
	KeyInsurance    Key = "assurance"
	KeyIncome       Key = "revenus"
)

// Set holds at most one value per entity kind. Nil means absent.
type Set struct {
	Amount        *float64     `json:"montant,omitempty"`
	DurationYears *int         `json:"duree,omitempty"`
	ProductType   *ProductType `json:"type_credit,omitempty"`
	InterestRate  *float64     `json:"taux_interet,omitempty"`
	Insurance     *bool        `json:"assurance,omitempty"`
	Income        *float64     `json:"revenus,omitempty"`
}

// Count returns the number of present entities.
func (s Set) Count() int {
	return len(s.Keys())
}

// IsEmpty reports whether no entity is present.
func (s Set) IsEmpty() bool {
	return s.Count() == 0
}

// Keys lists the present entity kinds in declaration order.
func (s Set) Keys() []Key {
	var keys []Key
	if s.Amount != nil {
		keys = append(keys, KeyAmount)
	}
	if s.DurationYears != nil {
		keys = append(keys, KeyDuration)
	}
	if s.ProductType != nil {
		keys = append(keys, KeyProductType)
	}
	if s.InterestRate != nil {
		keys = append(keys, KeyInterestRate)
	}
	if s.Insurance != nil {
		keys = append(keys, KeyInsurance)
	}
	if s.Income != nil {
		keys = append(keys, KeyIncome)
	}
	return keys
}

// ProductOrDefault returns the product type, defaulting to personnel.
func (s Set) ProductOrDefault() ProductType {
	if s.ProductType != nil {
		return *s.ProductType
	}
	return ProductPersonnel
}

// WithInsurance reports the insurance flag, defaulting to false.
func (s Set) WithInsurance() bool {
	return s.Insurance != nil && *s.Insurance
}

// Float64 returns a pointer to v. Convenience for building sets.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Product returns a pointer to v.
func Product(v ProductType) *ProductType { return &v }
