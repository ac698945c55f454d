package triage

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sehha-plus/triage-server/internal/domain"
)

func matchedCardiacResult() domain.ClassificationResult {
	return domain.ClassificationResult{
		Matched:        true,
		Specialist:     "Cardiologue",
		Urgency:        domain.UrgencyHigh,
		Investigations: []string{"ECG (électrocardiogramme)", "troponines"},
		DomainLabel:    "cardiovasculaires",
	}
}

func TestSynthesizer_Synthesize_MatchedPath(t *testing.T) {
	synth := NewSynthesizer()

	analysis := synth.Synthesize(matchedCardiacResult(), "douleur thoracique et palpitations")

	assert.Contains(t, analysis.PreDiagnosis, "cardiovasculaires")
	assert.Contains(t, analysis.PreDiagnosis, "douleur thoracique et palpitations")
	assert.Contains(t, analysis.Recommendations, "Cardiologue")
	assert.Contains(t, analysis.Recommendations, "PRIORITAIRE")
	assert.Contains(t, analysis.Recommendations, "• ECG (électrocardiogramme)")
	assert.Contains(t, analysis.Recommendations, "• troponines")
	assert.Equal(t, domain.UrgencyHigh, analysis.Urgency)
	assert.Len(t, analysis.FollowUpQuestions, 3)
	assert.Equal(t, "rules", analysis.Source)
}

func TestSynthesizer_Synthesize_TruncationBoundary(t *testing.T) {
	synth := NewSynthesizer()

	// Multi-byte runes on purpose: truncation must never fracture them.
	exact := strings.Repeat("é", matchedEchoLimit)
	over := strings.Repeat("é", matchedEchoLimit+1)

	analysis := synth.Synthesize(matchedCardiacResult(), exact)
	assert.Contains(t, analysis.PreDiagnosis, exact)
	assert.NotContains(t, analysis.PreDiagnosis, exact+"...")

	analysis = synth.Synthesize(matchedCardiacResult(), over)
	assert.Contains(t, analysis.PreDiagnosis, exact+"...")
	assert.NotContains(t, analysis.PreDiagnosis, over)
	assert.True(t, utf8.ValidString(analysis.PreDiagnosis))
}

func TestSynthesizer_DeriveAnxietyTier(t *testing.T) {
	synth := NewSynthesizer()

	tests := []struct {
		name    string
		text    string
		urgency domain.Urgency
		want    domain.AnxietyTier
	}{
		{"urgent always high tier", "rien de spécial", domain.UrgencyUrgent, domain.AnxietyHigh},
		{"panic keyword", "crise de panique ce matin", domain.UrgencyLow, domain.AnxietyHigh},
		{"severe pain keyword", "douleur intense au dos", domain.UrgencyLow, domain.AnxietyHigh},
		{"high urgency moderate tier", "toux depuis hier", domain.UrgencyHigh, domain.AnxietyModerate},
		{"worried keyword", "je suis inquiet pour ma santé", domain.UrgencyLow, domain.AnxietyModerate},
		{"burnout keyword", "burnout complet au travail", domain.UrgencyMedium, domain.AnxietyModerate},
		{"calm low", "petite gêne au genou", domain.UrgencyLow, domain.AnxietyMild},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, synth.DeriveAnxietyTier(tt.text, tt.urgency))
		})
	}
}

// Urgency == urgent must yield the high tier regardless of keyword content.
func TestSynthesizer_AnxietyTierMonotonicity(t *testing.T) {
	synth := NewSynthesizer()

	for _, text := range []string{"", "tout va bien", "simple contrôle", "aucun stress"} {
		assert.Equal(t, domain.AnxietyHigh, synth.DeriveAnxietyTier(text, domain.UrgencyUrgent))
	}
}

func TestSynthesizer_SupportCategory(t *testing.T) {
	synth := NewSynthesizer()

	tests := []struct {
		name string
		text string
		want domain.SupportCategory
	}{
		{"mental health", "anxiété permanente et insomnie", domain.SupportMentalHealth},
		{"physical pain", "douleur au genou droit", domain.SupportPhysicalPain},
		{"general", "vision floue depuis hier", domain.SupportGeneral},
		{"mental wins over pain", "douleur et angoisse", domain.SupportMentalHealth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, synth.SupportCategory(tt.text))
		})
	}
}

func TestSynthesizer_SupportMessage(t *testing.T) {
	synth := NewSynthesizer()

	t.Run("urgent override wins over category", func(t *testing.T) {
		msg := synth.SupportMessage("anxiété très forte", domain.UrgencyUrgent, domain.AnxietyHigh)
		assert.Equal(t, urgentSupportMessage, msg)
		assert.Contains(t, msg, "141")
	})

	t.Run("mental health high tier", func(t *testing.T) {
		msg := synth.SupportMessage("dépression depuis des mois", domain.UrgencyMedium, domain.AnxietyHigh)
		assert.Contains(t, msg, "mieux-être")
		assert.Contains(t, msg, "SOS Amitié Maroc")
	})

	t.Run("physical pain mild tier", func(t *testing.T) {
		msg := synth.SupportMessage("douleur légère au poignet", domain.UrgencyLow, domain.AnxietyMild)
		assert.Contains(t, msg, "prévention")
	})

	t.Run("every category and tier has a template", func(t *testing.T) {
		categories := []domain.SupportCategory{
			domain.SupportMentalHealth, domain.SupportPhysicalPain, domain.SupportGeneral,
		}
		tiers := []domain.AnxietyTier{domain.AnxietyMild, domain.AnxietyModerate, domain.AnxietyHigh}
		for _, c := range categories {
			for _, tier := range tiers {
				assert.NotEmpty(t, supportMessages[c][tier], "%s/%s", c, tier)
			}
		}
	})
}

// The fallback path never errors and populates every field.
func TestSynthesizer_Synthesize_FallbackCompleteness(t *testing.T) {
	synth := NewSynthesizer()

	result := domain.ClassificationResult{
		Matched:    false,
		Specialist: FallbackSpecialist,
		Urgency:    domain.UrgencyMedium,
	}
	analysis := synth.Synthesize(result, "xyz123")

	assert.NotEmpty(t, analysis.PreDiagnosis)
	assert.NotEmpty(t, analysis.Recommendations)
	assert.NotEmpty(t, analysis.SupportMessage)
	assert.True(t, analysis.AnxietyTier.IsValid())
	assert.True(t, analysis.Urgency.IsValid())
	assert.Len(t, analysis.FollowUpQuestions, 5)
	assert.Contains(t, analysis.Recommendations, FallbackSpecialist)
	assert.Equal(t, "fallback", analysis.Source)
}

func TestSynthesizer_Synthesize_Deterministic(t *testing.T) {
	synth := NewSynthesizer()

	text := "grain de beauté qui a changé de couleur"
	result := domain.ClassificationResult{
		Matched:        true,
		Specialist:     "Dermatologue",
		Urgency:        domain.UrgencyHigh,
		Investigations: []string{"dermatoscopie numérique"},
		DomainLabel:    "dermatologiques",
	}

	first := synth.Synthesize(result, text)
	second := synth.Synthesize(result, text)
	assert.Equal(t, first, second)
}

// End-to-end over matcher + synthesizer, mirroring the reference patient
// scenarios.
func TestClassifyAndSynthesize_Scenarios(t *testing.T) {
	matcher := NewMatcher()
	synth := NewSynthesizer()

	t.Run("cardiac report", func(t *testing.T) {
		text := "J'ai des douleurs thoraciques et des palpitations depuis 2 jours"
		result := matcher.Classify(text)
		require.True(t, result.Matched)

		analysis := synth.Synthesize(result, text)
		assert.Equal(t, "Cardiologue", analysis.Specialist)
		assert.Equal(t, domain.UrgencyHigh, analysis.Urgency)
		assert.Contains(t, analysis.Recommendations, "Cardiologue")
		assert.Contains(t, analysis.Recommendations, "PRIORITAIRE")
	})

	t.Run("suspicious mole", func(t *testing.T) {
		text := "petit grain de beauté qui a changé de couleur récemment"
		result := matcher.Classify(text)
		require.True(t, result.Matched)

		analysis := synth.Synthesize(result, text)
		assert.Equal(t, "Dermatologue", analysis.Specialist)
		assert.Equal(t, domain.UrgencyHigh, analysis.Urgency)
	})

	t.Run("anxious insomnia", func(t *testing.T) {
		text := "je me sens très anxieux et je n'arrive plus à dormir"
		result := matcher.Classify(text)
		require.True(t, result.Matched)

		analysis := synth.Synthesize(result, text)
		assert.Equal(t, "Psychiatre ou Psychologue", analysis.Specialist)
		assert.Equal(t, domain.AnxietyHigh, analysis.AnxietyTier)
		assert.Contains(t, analysis.SupportMessage, "santé mentale")
	})
}
