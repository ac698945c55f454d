package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sehha-plus/triage-server/internal/domain"
)

func TestMatcher_Classify_SpecialistRouting(t *testing.T) {
	matcher := NewMatcher()

	tests := []struct {
		name           string
		text           string
		wantSpecialist string
		wantUrgency    domain.Urgency
		wantMatched    bool
	}{
		{
			name:           "cardiac palpitations",
			text:           "J'ai des douleurs thoraciques et des palpitations depuis 2 jours",
			wantSpecialist: "Cardiologue",
			wantUrgency:    domain.UrgencyHigh,
			wantMatched:    true,
		},
		{
			name:           "neurological tingling",
			text:           "fourmillements dans les mains et maux de tête",
			wantSpecialist: "Neurologue",
			wantUrgency:    domain.UrgencyMedium,
			wantMatched:    true,
		},
		{
			name:           "respiratory chronic cough",
			text:           "toux persistante depuis trois semaines",
			wantSpecialist: "Pneumologue",
			wantUrgency:    domain.UrgencyMedium,
			wantMatched:    true,
		},
		{
			name:           "digestive",
			text:           "nausées et douleur abdominale après les repas",
			wantSpecialist: "Gastro-entérologue",
			wantUrgency:    domain.UrgencyMedium,
			wantMatched:    true,
		},
		{
			name:           "psychiatric anxious insomnia",
			text:           "je me sens très anxieux et je n'arrive plus à dormir",
			wantSpecialist: "Psychiatre ou Psychologue",
			wantUrgency:    domain.UrgencyMedium,
			wantMatched:    true,
		},
		{
			name:           "rheumatological low urgency",
			text:           "lombalgie chronique et raideur matinale",
			wantSpecialist: "Rhumatologue",
			wantUrgency:    domain.UrgencyLow,
			wantMatched:    true,
		},
		{
			name:           "endocrine",
			text:           "soif excessive et perte poids depuis un mois",
			wantSpecialist: "Endocrinologue",
			wantUrgency:    domain.UrgencyMedium,
			wantMatched:    true,
		},
		{
			name:           "gynecological",
			text:           "règles douloureuses et douleurs pelviennes",
			wantSpecialist: "Gynécologue",
			wantUrgency:    domain.UrgencyMedium,
			wantMatched:    true,
		},
		{
			name:           "urological",
			text:           "cystite à répétition avec dysurie",
			wantSpecialist: "Urologue",
			wantUrgency:    domain.UrgencyMedium,
			wantMatched:    true,
		},
		{
			name:           "ophthalmological",
			text:           "vision floue et yeux rouges le matin",
			wantSpecialist: "Ophtalmologue",
			wantUrgency:    domain.UrgencyMedium,
			wantMatched:    true,
		},
		{
			name:           "ENT",
			text:           "mal gorge et acouphènes",
			wantSpecialist: "ORL (Oto-Rhino-Laryngologue)",
			wantUrgency:    domain.UrgencyMedium,
			wantMatched:    true,
		},
		{
			name:           "no rule matches",
			text:           "xyz123",
			wantSpecialist: FallbackSpecialist,
			wantUrgency:    domain.UrgencyMedium,
			wantMatched:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.Classify(tt.text)
			assert.Equal(t, tt.wantMatched, result.Matched)
			assert.Equal(t, tt.wantSpecialist, result.Specialist)
			assert.Equal(t, tt.wantUrgency, result.Urgency)
		})
	}
}

// Cardiac rules precede neurological ones: text containing keywords from
// both categories must route to cardiology.
func TestMatcher_Classify_OrderingPrecedence(t *testing.T) {
	matcher := NewMatcher()

	result := matcher.Classify("douleur thoracique avec fourmillements dans le bras")
	assert.True(t, result.Matched)
	assert.Equal(t, "Cardiologue", result.Specialist)
}

func TestMatcher_Classify_DermatologyEscalation(t *testing.T) {
	matcher := NewMatcher()

	tests := []struct {
		name        string
		text        string
		wantUrgency domain.Urgency
	}{
		{
			name:        "base keyword alone stays medium",
			text:        "petit grain de beauté sur le bras",
			wantUrgency: domain.UrgencyMedium,
		},
		{
			name:        "suspicious change escalates to high",
			text:        "petit grain de beauté qui a changé de couleur récemment",
			wantUrgency: domain.UrgencyHigh,
		},
		{
			name:        "asymmetry escalates",
			text:        "lésion cutanée avec asymétrie",
			wantUrgency: domain.UrgencyHigh,
		},
		{
			// Suspicious-change keywords also appear in the base keyword
			// list, so a change keyword alone still matches the rule and
			// escalates. This mirrors the source vocabulary as written.
			name:        "change keyword alone still matches",
			text:        "une tache qui a changé de taille",
			wantUrgency: domain.UrgencyHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.Classify(tt.text)
			require.True(t, result.Matched)
			assert.Equal(t, "Dermatologue", result.Specialist)
			assert.Equal(t, tt.wantUrgency, result.Urgency)
		})
	}
}

func TestMatcher_Classify_FallbackUrgencyScan(t *testing.T) {
	matcher := NewMatcher()

	tests := []struct {
		name        string
		text        string
		wantUrgency domain.Urgency
	}{
		{"loss of consciousness is urgent", "perte conscience soudaine ce matin", domain.UrgencyUrgent},
		{"high fever elevates", "fièvre élevée depuis hier soir", domain.UrgencyHigh},
		{"plain unmatched stays medium", "je ne me sens pas bien", domain.UrgencyMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.Classify(tt.text)
			require.False(t, result.Matched)
			assert.Equal(t, tt.wantUrgency, result.Urgency)
			assert.Equal(t, FallbackSpecialist, result.Specialist)
		})
	}
}

// Accent folding is a deliberate widening over the source vocabulary:
// accent and case variants the original keyword lists omitted now match.
func TestMatcher_Classify_AccentFolding(t *testing.T) {
	matcher := NewMatcher()

	tests := []struct {
		name           string
		text           string
		wantSpecialist string
	}{
		{"uppercase accented", "CÉPHALÉES INTENSES", "Neurologue"},
		{"unaccented variant", "cephalees depuis deux jours", "Neurologue"},
		{"oe ligature", "œdèmes des deux jambes", "Cardiologue"},
		{"expanded ligature", "oedemes des chevilles", "Cardiologue"},
		{"accented dyspnea", "dyspnée au moindre effort", "Cardiologue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.Classify(tt.text)
			require.True(t, result.Matched, "expected a rule match for %q", tt.text)
			assert.Equal(t, tt.wantSpecialist, result.Specialist)
		})
	}
}

// Classification is total: any non-empty input yields a usable result.
func TestMatcher_Classify_TotalCoverage(t *testing.T) {
	matcher := NewMatcher()

	inputs := []string{
		"a", "1234567890", "!!??", "grippe", "douleur", "mal partout",
		"symptômes divers sans orientation claire",
	}

	for _, text := range inputs {
		result := matcher.Classify(text)
		assert.NotEmpty(t, result.Specialist, "input %q", text)
		assert.True(t, result.Urgency.IsValid(), "input %q", text)
	}
}

func TestMatcher_Classify_Deterministic(t *testing.T) {
	matcher := NewMatcher()

	text := "palpitations et essoufflement à l'effort"
	first := matcher.Classify(text)
	second := matcher.Classify(text)
	assert.Equal(t, first, second)
}

func TestMatcher_RulesSortedByPriority(t *testing.T) {
	matcher := NewMatcher()

	rules := matcher.Rules()
	require.NotEmpty(t, rules)
	for i := 1; i < len(rules); i++ {
		assert.Less(t, rules[i-1].Priority, rules[i].Priority)
	}
	assert.Equal(t, "Cardiologue", rules[0].Specialist)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dyspnée", "dyspnee"},
		{"ŒDÈMES", "oedemes"},
		{"déjà vu", "deja vu"},
		{"plain ascii", "plain ascii"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in))
	}
}

func TestTruncateRunes(t *testing.T) {
	s, cut := truncateRunes("abc", 5)
	assert.Equal(t, "abc", s)
	assert.False(t, cut)

	s, cut = truncateRunes("ééééé", 3)
	assert.Equal(t, "ééé", s)
	assert.True(t, cut)
}
