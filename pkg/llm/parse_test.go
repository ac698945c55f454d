package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sehha-plus/triage-server/internal/domain"
)

func TestParseAnalysis_Specialist(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected string
	}{
		{
			name:     "cardiologue",
			response: "Spécialiste recommandé: Cardiologue\nUrgence: high",
			expected: "Cardiologue",
		},
		{
			name:     "gastro compound before shorter markers",
			response: "Orientation vers un Gastro-entérologue pour bilan digestif",
			expected: "Gastro-entérologue",
		},
		{
			name:     "gastro unaccented",
			response: "consulter un gastro-enterologue rapidement",
			expected: "Gastro-entérologue",
		},
		{
			name:     "psychologue maps to combined label",
			response: "Un suivi avec un psychologue est conseillé",
			expected: "Psychiatre ou Psychologue",
		},
		{
			name:     "orl standalone token",
			response: "Consultation ORL recommandée pour les vertiges positionnels",
			expected: "ORL",
		},
		{
			name:     "orl inside a word does not match",
			response: "Prendre rendez-vous au CHU d'Orléans avec un généraliste",
			expected: "Médecin généraliste",
		},
		{
			name:     "no marker falls back to generalist",
			response: "Bilan général conseillé sans orientation particulière",
			expected: "Médecin généraliste",
		},
		{
			name:     "cardiologue wins over neurologue mention",
			response: "Cardiologue en priorité, pas de Neurologue nécessaire",
			expected: "Cardiologue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseAnalysis(tt.response)
			assert.Equal(t, tt.expected, parsed.Specialist)
		})
	}
}

func TestParseAnalysis_Urgency(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected domain.Urgency
	}{
		{"urgent keyword", "Urgence: URGENT, consulter immédiatement", domain.UrgencyUrgent},
		{"prioritaire", "Consultation prioritaire sous 24h", domain.UrgencyHigh},
		{"accented eleve", "Niveau de gravité élevé", domain.UrgencyHigh},
		{"english high", "Urgence: high", domain.UrgencyHigh},
		{"faible", "Gravité faible, surveillance simple", domain.UrgencyLow},
		{"english low", "Urgency: low", domain.UrgencyLow},
		{"default medium", "Consultation recommandée dans les prochains jours", domain.UrgencyMedium},
		{"urgent wins over faible", "urgent même si le risque initial semblait faible", domain.UrgencyUrgent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseAnalysis(tt.response)
			assert.Equal(t, tt.expected, parsed.Urgency)
			assert.True(t, parsed.Urgency.IsValid())
		})
	}
}

func TestParseAnalysis_NarrativeTrimmed(t *testing.T) {
	parsed := ParseAnalysis("\n  Hypothèse: angor d'effort. Cardiologue.  \n")
	assert.Equal(t, "Hypothèse: angor d'effort. Cardiologue.", parsed.Narrative)
}
