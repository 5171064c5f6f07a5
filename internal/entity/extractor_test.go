package entity

import (
	"context"
	"errors"
	"testing"

	"credit-assist/internal/capability"
	"credit-assist/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTagger returns canned spans, or an error.
type stubTagger struct {
	spans []capability.Span
	err   error
}

func (s *stubTagger) Tag(ctx context.Context, text string) ([]capability.Span, error) {
	return s.spans, s.err
}

func newExtractor(t *testing.T, tagger capability.Tagger) *Extractor {
	t.Helper()
	return NewExtractor(tagger, logger.NewTestLogger(t))
}

func TestExtract_SimulationPhrase(t *testing.T) {
	e := newExtractor(t, &stubTagger{})

	set, err := e.Extract(context.Background(), "Je voudrais simuler un crédit personnel de 50000€ sur 5 ans")
	require.NoError(t, err)

	require.NotNil(t, set.Amount)
	assert.Equal(t, 50000.0, *set.Amount)
	require.NotNil(t, set.DurationYears)
	assert.Equal(t, 5, *set.DurationYears)
	require.NotNil(t, set.ProductType)
	assert.Equal(t, ProductPersonnel, *set.ProductType)
}

func TestExtract_PatternFamilies(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, set Set)
	}{
		{
			name: "spaced thousands amount",
			text: "Simulation prêt immobilier 200 000€ sur 20 ans avec assurance",
			check: func(t *testing.T, set Set) {
				require.NotNil(t, set.Amount)
				assert.Equal(t, 200000.0, *set.Amount)
				require.NotNil(t, set.ProductType)
				assert.Equal(t, ProductImmobilier, *set.ProductType)
				require.NotNil(t, set.Insurance)
				assert.True(t, *set.Insurance)
			},
		},
		{
			name: "k shorthand expands by 1000",
			text: "un emprunt de 50k€ sur 10 ans",
			check: func(t *testing.T, set Set) {
				require.NotNil(t, set.Amount)
				assert.Equal(t, 50000.0, *set.Amount)
			},
		},
		{
			name: "months convert by integer division",
			text: "un crédit de 10000€ sur 30 mois",
			check: func(t *testing.T, set Set) {
				require.NotNil(t, set.DurationYears)
				assert.Equal(t, 2, *set.DurationYears)
			},
		},
		{
			name: "product synonym voiture",
			text: "je cherche un prêt voiture",
			check: func(t *testing.T, set Set) {
				require.NotNil(t, set.ProductType)
				assert.Equal(t, ProductAutomobile, *set.ProductType)
			},
		},
		{
			name: "interest rate percent",
			text: "Crédit automobile 25 000€ sur 4 ans à 3.5%",
			check: func(t *testing.T, set Set) {
				require.NotNil(t, set.InterestRate)
				assert.Equal(t, 3.5, *set.InterestRate)
				require.NotNil(t, set.Amount)
				assert.Equal(t, 25000.0, *set.Amount)
			},
		},
		{
			name: "monthly income",
			text: "Je gagne 3500€ par mois",
			check: func(t *testing.T, set Set) {
				require.NotNil(t, set.Income)
				assert.Equal(t, 3500.0, *set.Income)
			},
		},
		{
			name: "without insurance",
			text: "Prêt travaux 35 000€ sur 7 ans sans assurance",
			check: func(t *testing.T, set Set) {
				require.NotNil(t, set.Insurance)
				assert.False(t, *set.Insurance)
				require.NotNil(t, set.ProductType)
				assert.Equal(t, ProductTravaux, *set.ProductType)
			},
		},
	}

	e := newExtractor(t, &stubTagger{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := e.Extract(context.Background(), tt.text)
			require.NoError(t, err)
			tt.check(t, set)
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	e := newExtractor(t, &stubTagger{})
	text := "Je voudrais simuler un crédit personnel de 50 000€ sur 5 ans"

	first, err := e.Extract(context.Background(), text)
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtract_NERFillsOnlyMissingKeys(t *testing.T) {
	tagger := &stubTagger{spans: []capability.Span{
		{Text: "75000", Type: "MONEY", Start: 13, End: 18},
		{Text: "8", Type: "CARDINAL", Start: 23, End: 24},
	}}
	e := newExtractor(t, tagger)

	// No euro suffix, so the regex pass misses the amount; the duration word
	// makes the CARDINAL span eligible.
	set, err := e.Extract(context.Background(), "un crédit de 75000 sur 8 années de durée en mois")
	require.NoError(t, err)

	require.NotNil(t, set.Amount)
	assert.Equal(t, 75000.0, *set.Amount)
	require.NotNil(t, set.DurationYears)
	// The regex pass already matched "8 années"; NER must not overwrite it.
	assert.Equal(t, 8, *set.DurationYears)
}

func TestExtract_PatternsWinOverNER(t *testing.T) {
	tagger := &stubTagger{spans: []capability.Span{
		{Text: "999999", Type: "MONEY", Start: 0, End: 6},
	}}
	e := newExtractor(t, tagger)

	set, err := e.Extract(context.Background(), "un prêt de 20000€ sans durée précise")
	require.NoError(t, err)
	require.NotNil(t, set.Amount)
	assert.Equal(t, 20000.0, *set.Amount)
}

func TestExtract_TaggerFailurePropagates(t *testing.T) {
	e := newExtractor(t, &stubTagger{err: errors.New("model unavailable")})

	_, err := e.Extract(context.Background(), "un crédit de 75000 sur quelques ans")
	assert.Error(t, err)
}

func TestValidate_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		kept   bool
	}{
		{"below lower bound", 999, false},
		{"at lower bound", 1000, true},
		{"at upper bound", 1500000, true},
		{"above upper bound", 1500001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Validate(Set{Amount: Float64(tt.amount)})
			if tt.kept {
				require.NotNil(t, out.Amount)
				assert.Equal(t, tt.amount, *out.Amount)
			} else {
				assert.Nil(t, out.Amount)
			}
		})
	}
}

func TestValidate_DropsOutOfRangeSilently(t *testing.T) {
	raw := Set{
		Amount:        Float64(500), // below range
		DurationYears: Int(30),      // above range
		InterestRate:  Float64(0.5), // below range
		Income:        Float64(60000),
		Insurance:     Bool(true), // unconstrained
	}

	out := Validate(raw)
	assert.Nil(t, out.Amount)
	assert.Nil(t, out.DurationYears)
	assert.Nil(t, out.InterestRate)
	assert.Nil(t, out.Income)
	require.NotNil(t, out.Insurance)
	assert.True(t, *out.Insurance)
}

func TestExtractWithValidation_Confidence(t *testing.T) {
	e := newExtractor(t, &stubTagger{})

	t.Run("all important entities valid scores 1.0", func(t *testing.T) {
		res, err := e.ExtractWithValidation(context.Background(), "crédit personnel de 50000€ sur 5 ans")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, res.Confidence, 1e-9)
	})

	t.Run("empty extraction scores 0.0", func(t *testing.T) {
		res, err := e.ExtractWithValidation(context.Background(), "bonjour")
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Confidence)
		assert.True(t, res.Raw.IsEmpty())
	})

	t.Run("invalid entities lower the score", func(t *testing.T) {
		// Amount extracted but out of range: ratio 0, no important bonus.
		res, err := e.ExtractWithValidation(context.Background(), "un prêt de 999€")
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Confidence)
		assert.False(t, res.Raw.IsEmpty())
		assert.True(t, res.Validated.IsEmpty())
	})
}
