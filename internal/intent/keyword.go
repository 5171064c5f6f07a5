package intent

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"credit-assist/internal/entity"
)

// defaultConfidence is returned when no intent scores above the floor;
// support_client is the designed default, not a failure.
const defaultConfidence = 0.1

// intentKeywords owns the fixed keyword tokens per intent.
var intentKeywords = map[Intent][]string{
	Simulation: {
		"simuler", "simulation", "calculer", "calcul", "mensualité", "mensualités",
		"crédit", "prêt", "emprunt", "emprunter", "financement", "taux",
		"€", "euros", "euro", "mois", "ans", "année", "années",
	},
	Request: {
		"demande", "demander", "solliciter", "obtenir", "faire",
		"démarche", "démarches", "étape", "étapes", "procédure",
		"condition", "conditions", "dossier",
	},
	ProductInfo: {
		"qu'est-ce", "qu'est", "expliquer", "expliquez", "différence", "différences",
		"avantage", "avantages", "caractéristique", "caractéristiques",
		"fonctionne", "fonctionnement", "type", "types", "assurance",
	},
	FinancialCalc: {
		"taeg", "coût", "total", "amortissement", "intérêt", "intérêts",
		"remboursement", "rembourser", "tableau", "montant",
	},
	Support: {
		"contacter", "conseiller", "contact", "aider", "aide",
		"problème", "comprendre", "expliquer", "horaire", "horaires",
		"mot de passe", "identifiant", "support", "joindre",
	},
	Modification: {
		"modifier", "modification", "changer", "changement",
		"nouveau", "nouvelle", "autre", "différent",
	},
}

var (
	fallbackAmountRe   = regexp.MustCompile(`(\d+(?:\s*\d+)*)\s*(?:€|euros?)`)
	fallbackDurationRe = regexp.MustCompile(`(\d+)\s*(?:ans?|années?|mois)`)
)

// KeywordClassifier scores messages against the fixed keyword sets. It is
// the degraded path when the primary model is unavailable.
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify returns the best-scoring intent, its confidence and the full
// score breakdown. A whole-word keyword match counts double a substring
// match; normalized scores above 0.3 are boosted by 1.5 and capped at 1.0.
// Ties resolve by declaration order.
func (c *KeywordClassifier) Classify(text string) (Intent, float64, map[Intent]float64) {
	lower := strings.ToLower(text)

	scores := make(map[Intent]float64, len(order))
	for _, it := range order {
		scores[it] = c.score(lower, it)
	}

	best := order[0]
	for _, it := range order[1:] {
		if scores[it] > scores[best] {
			best = it
		}
	}

	if scores[best] < defaultConfidence {
		return Support, defaultConfidence, scores
	}
	return best, scores[best], scores
}

func (c *KeywordClassifier) score(lower string, it Intent) float64 {
	kws := intentKeywords[it]

	score := 0.0
	for _, kw := range kws {
		if !strings.Contains(lower, kw) {
			continue
		}
		if matchesWholeWord(lower, kw) {
			score += 2
		} else {
			score += 1
		}
	}

	normalized := score / float64(len(kws))
	if normalized > 0.3 {
		normalized *= 1.5
	}
	if normalized > 1.0 {
		normalized = 1.0
	}
	return normalized
}

// matchesWholeWord reports whether kw occurs in text with no word rune on
// either side. regexp's \b is ASCII-only and never fires next to accented
// letters, so the boundary runes are checked directly.
func matchesWholeWord(text, kw string) bool {
	for from := 0; ; {
		i := strings.Index(text[from:], kw)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(kw)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		from = start + 1
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ExtractEntities pulls the coarse entity set the fallback path bundles
// with its classification. Much rougher than the full extractor: no unit
// conversion, no synonym folding beyond the product shortcuts.
func (c *KeywordClassifier) ExtractEntities(text string) entity.Set {
	var set entity.Set
	lower := strings.ToLower(text)

	if m := fallbackAmountRe.FindStringSubmatch(text); m != nil {
		cleaned := strings.ReplaceAll(m[1], " ", "")
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			set.Amount = &v
		}
	}

	if m := fallbackDurationRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			set.DurationYears = &v
		}
	}

	switch {
	case strings.Contains(lower, "personnel"):
		set.ProductType = entity.Product(entity.ProductPersonnel)
	case strings.Contains(lower, "immobilier"):
		set.ProductType = entity.Product(entity.ProductImmobilier)
	case strings.Contains(lower, "automobile"),
		strings.Contains(lower, "auto"),
		strings.Contains(lower, "voiture"):
		set.ProductType = entity.Product(entity.ProductAutomobile)
	case strings.Contains(lower, "travaux"):
		set.ProductType = entity.Product(entity.ProductTravaux)
	}

	return set
}
