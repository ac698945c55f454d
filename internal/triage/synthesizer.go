package triage

import (
	"fmt"
	"strings"

	"github.com/sehha-plus/triage-server/internal/domain"
)

// Echo limits for the symptom excerpt embedded in the narratives.
// Truncation works on code points, never bytes.
const (
	matchedEchoLimit  = 150
	fallbackEchoLimit = 100
)

// Synthesizer renders the patient-facing narrative from a classification
// result: pre-diagnosis, recommendations, anxiety tier, support message
// and follow-up questions. It is stateless and deterministic; calling it
// twice with the same input yields byte-identical output.
type Synthesizer struct{}

// NewSynthesizer creates a narrative synthesizer.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize produces the full analysis for a classification result.
// The fallback path (Matched=false) still populates every field; the
// synthesizer has no error path.
func (s *Synthesizer) Synthesize(result domain.ClassificationResult, reportText string) domain.TriageAnalysis {
	tier := s.DeriveAnxietyTier(reportText, result.Urgency)
	support := s.SupportMessage(reportText, result.Urgency, tier)

	if result.Matched {
		return domain.TriageAnalysis{
			PreDiagnosis:      s.renderPreDiagnosis(result.DomainLabel, reportText),
			Urgency:           result.Urgency,
			Recommendations:   s.renderRecommendations(result.Specialist, result.Urgency, result.Investigations),
			AnxietyTier:       tier,
			SupportMessage:    support,
			FollowUpQuestions: append([]string(nil), followUpQuestions...),
			Specialist:        result.Specialist,
			Source:            "rules",
		}
	}

	return domain.TriageAnalysis{
		PreDiagnosis:      s.renderFallbackPreDiagnosis(reportText, result.Urgency),
		Urgency:           result.Urgency,
		Recommendations:   s.renderFallbackRecommendations(result.Specialist, result.Urgency),
		AnxietyTier:       tier,
		SupportMessage:    support,
		FollowUpQuestions: append([]string(nil), fallbackFollowUpQuestions...),
		Specialist:        result.Specialist,
		Source:            "fallback",
	}
}

// SynthesizeAdvisory renders an analysis around an externally produced
// narrative and referral, used when no rule matched but a language model
// supplied a reading. The anxiety tier and support message still come
// from the deterministic scans.
func (s *Synthesizer) SynthesizeAdvisory(specialist string, urgency domain.Urgency, narrative, reportText string) domain.TriageAnalysis {
	tier := s.DeriveAnxietyTier(reportText, urgency)

	recommendations := fmt.Sprintf(`Consultation spécialisée recommandée

Spécialiste à consulter: %s
Évaluation: Analyse des symptômes rapportés nécessitant une expertise médicale

Plan de consultation:
• Préparation avec historique détaillé des symptômes
• Examen clinique spécialisé
• Examens complémentaires selon indication médicale
• Plan de traitement adapté

Cette analyse préliminaire facilite votre préparation à la consultation médicale.`, specialist)

	return domain.TriageAnalysis{
		PreDiagnosis:      narrative,
		Urgency:           urgency,
		Recommendations:   recommendations,
		AnxietyTier:       tier,
		SupportMessage:    s.SupportMessage(reportText, urgency, tier),
		FollowUpQuestions: append([]string(nil), followUpQuestions...),
		Specialist:        specialist,
		Source:            "llm",
	}
}

// DeriveAnxietyTier estimates the patient's emotional distress from the
// urgency level and a keyword scan over the report text. The scan is
// independent from specialist routing; the overlap with the urgency-only
// scan ("douleur intense" appears in both) is intentional.
func (s *Synthesizer) DeriveAnxietyTier(reportText string, urgency domain.Urgency) domain.AnxietyTier {
	normalized := Normalize(reportText)

	if urgency == domain.UrgencyUrgent ||
		containsAny(normalized, highAnxietyKeywords) ||
		containsAny(normalized, severeSymptomKeywords) {
		return domain.AnxietyHigh
	}

	if urgency == domain.UrgencyHigh ||
		containsAny(normalized, mentalDistressKeywords) ||
		containsAny(normalized, moderateAnxietyKeywords) {
		return domain.AnxietyModerate
	}

	return domain.AnxietyMild
}

// SupportCategory selects the support-message family for a report.
func (s *Synthesizer) SupportCategory(reportText string) domain.SupportCategory {
	normalized := Normalize(reportText)

	if containsAny(normalized, mentalHealthSupportKeywords) {
		return domain.SupportMentalHealth
	}
	if containsAny(normalized, physicalPainSupportKeywords) {
		return domain.SupportPhysicalPain
	}
	return domain.SupportGeneral
}

// SupportMessage returns the reassurance text for a report. Urgent
// analyses always use the crisis-line override regardless of keywords.
func (s *Synthesizer) SupportMessage(reportText string, urgency domain.Urgency, tier domain.AnxietyTier) string {
	if urgency == domain.UrgencyUrgent {
		return urgentSupportMessage
	}
	return supportMessages[s.SupportCategory(reportText)][tier]
}

// renderPreDiagnosis builds the matched-path narrative: category label,
// truncated symptom echo, fixed templated paragraphs.
func (s *Synthesizer) renderPreDiagnosis(domainLabel, reportText string) string {
	echo, cut := truncateRunes(reportText, matchedEchoLimit)
	echo = strings.TrimSpace(echo)
	if cut {
		echo += "..."
	}

	return fmt.Sprintf(`Analyse médicale des symptômes %s

Symptômes rapportés: %s

Cette présentation clinique évoque des troubles %s nécessitant une évaluation spécialisée. Les symptômes décrits correspondent à un tableau clinique qui justifie une consultation auprès d'un spécialiste pour établir un diagnostic précis et proposer une prise en charge adaptée.

L'analyse préliminaire oriente vers la nécessité d'examens complémentaires spécialisés pour confirmer ou infirmer les hypothèses diagnostiques et établir un plan thérapeutique approprié.

Cette évaluation constitue une aide à la préparation de votre consultation et ne remplace pas l'examen clinique médical.`, domainLabel, echo, domainLabel)
}

// renderRecommendations builds the matched-path recommendations block:
// specialist, urgency label, investigations in rule order, fixed
// follow-up plan and disclaimer.
func (s *Synthesizer) renderRecommendations(specialist string, urgency domain.Urgency, investigations []string) string {
	var b strings.Builder
	for i, exam := range investigations {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
		b.WriteString(exam)
	}

	return fmt.Sprintf(`Consultation spécialisée recommandée

Spécialiste à consulter: %s
Délai de consultation: %s

Examens complémentaires suggérés:
%s

Plan de suivi:
• Préparation de la consultation avec ce rapport d'analyse
• Présentation des symptômes détaillés au spécialiste
• Suivi des recommandations médicales
• Surveillance de l'évolution des symptômes

Important: Cette analyse préliminaire facilite la préparation de votre consultation médicale. Seul un professionnel de santé peut établir un diagnostic définitif et prescrire un traitement adapté.`, specialist, urgency.Label(), b.String())
}

// renderFallbackPreDiagnosis builds the generic narrative used when no
// rule matched.
func (s *Synthesizer) renderFallbackPreDiagnosis(reportText string, urgency domain.Urgency) string {
	echo, cut := truncateRunes(reportText, fallbackEchoLimit)
	if cut {
		echo += "..."
	}

	return fmt.Sprintf(`Analyse des symptômes rapportés : %s

Pré-diagnostic basé sur l'analyse structurée :
Vos symptômes nécessitent une évaluation médicale professionnelle pour établir un diagnostic précis. Les informations que vous avez fournies indiquent %s.

Important : Cette analyse est générée automatiquement et ne remplace en aucun cas l'avis d'un professionnel de santé qualifié. Consultez toujours un médecin pour un diagnostic et un traitement appropriés.`, echo, urgencyDescription(urgency))
}

// renderFallbackRecommendations builds the generic recommendations block.
func (s *Synthesizer) renderFallbackRecommendations(specialist string, urgency domain.Urgency) string {
	return fmt.Sprintf(`Recommandations personnalisées :

%s

Spécialiste suggéré : %s

Ce rapport vous aidera à :
- Structurer la présentation de vos symptômes à votre médecin
- Préparer les questions pertinentes pour votre consultation
- Documenter l'évolution de votre état de santé`, consultationTiming(specialist, urgency), specialist)
}

func urgencyDescription(urgency domain.Urgency) string {
	switch urgency {
	case domain.UrgencyUrgent:
		return "une situation qui requiert une attention médicale immédiate"
	case domain.UrgencyHigh:
		return "des symptômes qui méritent une consultation rapide"
	case domain.UrgencyMedium:
		return "des symptômes qui justifient une consultation médicale"
	default:
		return "des symptômes à surveiller et à discuter avec votre médecin"
	}
}

// consultationTiming phrases the consultation delay, with a dedicated
// wording when the referral is a mental-health professional.
func consultationTiming(specialist string, urgency domain.Urgency) string {
	mental := strings.Contains(specialist, "Psychiatre") || strings.Contains(specialist, "Psychologue")

	switch urgency {
	case domain.UrgencyUrgent:
		if mental {
			return "Consultation urgente requise - Contactez immédiatement un service d'urgence psychiatrique ou appelez SOS Amitié Maroc (141)"
		}
		return "Consultation urgente requise - Contactez immédiatement votre médecin ou rendez-vous aux urgences"
	case domain.UrgencyHigh:
		if mental {
			return "Consultation recommandée sous 24-48h - Prenez rendez-vous avec un psychiatre ou psychologue rapidement"
		}
		return "Consultation recommandée sous 24-48h - Prenez rendez-vous avec votre médecin généraliste rapidement"
	case domain.UrgencyMedium:
		if mental {
			return "Consultation dans les prochains jours - Planifiez un rendez-vous avec un psychiatre ou psychologue"
		}
		return "Consultation dans les prochains jours - Planifiez un rendez-vous avec votre médecin généraliste"
	default:
		if mental {
			return "Surveillance et consultation si aggravation - Consultez un psychiatre ou psychologue si les symptômes persistent"
		}
		return "Surveillance et consultation si aggravation - Surveillez l'évolution et consultez si les symptômes persistent ou s'aggravent"
	}
}
