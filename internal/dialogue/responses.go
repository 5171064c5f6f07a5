package dialogue

import (
	"fmt"
	"strings"

	"credit-assist/internal/creditmath"
	"credit-assist/internal/entity"
)

// Fixed reply texts. The conversational surface is French.
const (
	replyClarification = "Je ne suis pas sûr de bien comprendre votre demande. Pouvez-vous reformuler ?"
	replyNotUnderstood = "Je ne comprends pas votre demande. Pouvez-vous reformuler ?"
	replyUpsell        = "Souhaitez-vous ajouter une assurance emprunteur à cette simulation ?"
	replyNoSimulation  = "Je n'ai pas de simulation précédente à modifier. Pouvez-vous d'abord faire une simulation ?"
	replyCalcNeedsInfo = "Pour calculer le TAEG, précisez au moins le montant et la durée du crédit."

	replyCreditRequest = `Étapes de la demande de crédit :

1. Vérification d'éligibilité
   - Revenus minimum : 1500€/mois
   - Âge : 18-75 ans
   - Résidence en France

2. Documents nécessaires
   - Pièce d'identité
   - Justificatifs de revenus (3 derniers bulletins)
   - Justificatif de domicile
   - RIB

3. Rendez-vous conseiller
   Souhaitez-vous prendre rendez-vous avec un conseiller pour finaliser votre demande ?

Durée de traitement : 48-72h après réception du dossier complet.

Conseil : avez-vous déjà fait une simulation ? C'est recommandé avant de faire votre demande.`

	replySupport = `Support Client

Je suis là pour vous aider ! Voici les options disponibles :

Contact conseiller :
- Téléphone : 01 23 45 67 89
- Horaires : Lun-Ven 9h-18h, Sam 9h-12h
- Email : conseiller@banque.fr

Chat en direct :
- Disponible 24h/24
- Temps de réponse : < 2 minutes

Email support :
- support@banque.fr
- Réponse sous 24h

Mot de passe oublié :
- Cliquez sur "Mot de passe oublié" sur la page de connexion
- Un lien de réinitialisation vous sera envoyé par email

Que puis-je faire pour vous aider davantage ?`
)

func formatMissingParams(missing []string) string {
	return fmt.Sprintf("Pour faire votre simulation, il me manque : %s. Pouvez-vous me les préciser ?",
		strings.Join(missing, ", "))
}

func formatInvalidParams(details string) string {
	return fmt.Sprintf("Erreur dans les paramètres : %s.", details)
}

func formatSimulation(sim creditmath.Simulation) string {
	return fmt.Sprintf(
		"Mensualité : %.2f €\nTotal remboursé : %.2f €\nIntérêts : %.2f €",
		sim.MonthlyPayment, sim.TotalRepaid, sim.TotalInterest,
	)
}

func formatProductSheet(p Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nDescription :\n%s\n\nCaractéristiques :\n", p.Name, p.Description)
	for _, f := range p.Features {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	b.WriteString("\nAvantages :\n")
	for _, a := range p.Advantages {
		fmt.Fprintf(&b, "- %s\n", a)
	}
	b.WriteString("\nSouhaitez-vous une simulation personnalisée pour ce type de crédit ?")
	return b.String()
}

func formatCatalogDigest(products []Product) string {
	var b strings.Builder
	b.WriteString("Tous nos produits de crédit :\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, "%s\nDescription : %s\nCaractéristiques :\n", p.Name, p.Description)
		for _, f := range p.Features {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("Avantages :\n")
		for _, a := range p.Advantages {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCostBreakdown(sim creditmath.Simulation, filingFee float64) string {
	return fmt.Sprintf(`Calculs financiers :

Détail des coûts :
- Coût du crédit (hors assurance) : %.2f€
- Frais de dossier : %.2f€
- Coût total : %.2f€

Comparaisons possibles :
- Avec/sans assurance
- Différentes durées
- Différents montants

Que souhaitez-vous calculer précisément ?`,
		sim.TotalInterest, filingFee, sim.TotalRepaid)
}

func formatDirectTAEG(capital float64, years int, annualRate, taeg float64) string {
	return fmt.Sprintf("Le TAEG pour un crédit de %.0f€ sur %d ans à %.1f%% est de %.2f%%.",
		capital, years, annualRate, taeg)
}

func formatModification(old, updated creditmath.Simulation) string {
	return fmt.Sprintf(`Simulation modifiée

Ancienne simulation : %.2f€ sur %d ans, mensualité %.2f €, total remboursé %.2f €
Nouvelle simulation : %.2f€ sur %d ans, mensualité %.2f €, total remboursé %.2f €

Écart de mensualité : %+.2f €
Écart de coût total : %+.2f €`,
		old.Capital, old.DurationYears, old.MonthlyPayment, old.TotalRepaid,
		updated.Capital, updated.DurationYears, updated.MonthlyPayment, updated.TotalRepaid,
		updated.MonthlyPayment-old.MonthlyPayment,
		updated.TotalRepaid-old.TotalRepaid)
}

func formatModificationFailed(cause string) string {
	return fmt.Sprintf("Erreur lors de la modification : %s. Pouvez-vous vérifier les nouveaux paramètres ?", cause)
}

// missingSimulationParams lists the absent required parameters by their
// French entity names.
func missingSimulationParams(ents entity.Set) []string {
	var missing []string
	if ents.Amount == nil {
		missing = append(missing, string(entity.KeyAmount))
	}
	if ents.DurationYears == nil {
		missing = append(missing, string(entity.KeyDuration))
	}
	return missing
}
