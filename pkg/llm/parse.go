package llm

import (
	"strings"

	"github.com/sehha-plus/triage-server/internal/domain"
)

// specialistMarkers maps lowercase substrings of the model's free text to
// the canonical referral label. Order matters: compound labels such as
// "gastro-entérologue" must be probed before shorter overlapping terms.
var specialistMarkers = []struct {
	marker     string
	specialist string
}{
	{"cardiologue", "Cardiologue"},
	{"gastro-entérologue", "Gastro-entérologue"},
	{"gastro-enterologue", "Gastro-entérologue"},
	{"pneumologue", "Pneumologue"},
	{"neurologue", "Neurologue"},
	{"endocrinologue", "Endocrinologue"},
	{"rhumatologue", "Rhumatologue"},
	{"dermatologue", "Dermatologue"},
	{"gynécologue", "Gynécologue"},
	{"gynecologue", "Gynécologue"},
	{"urologue", "Urologue"},
	{"ophtalmologue", "Ophtalmologue"},
	{"psychiatre", "Psychiatre ou Psychologue"},
	{"psychologue", "Psychiatre ou Psychologue"},
	{"orl", "ORL"},
}

// ParsedAnalysis is the structured reading of a free-text model response.
type ParsedAnalysis struct {
	Specialist string
	Urgency    domain.Urgency
	Narrative  string
}

// ParseAnalysis extracts the recommended specialist and urgency from the
// model's French free-text response. Model output is advisory only; the
// caller re-validates both fields against the rule table before anything
// reaches a patient. Defaults are "Médecin généraliste" and medium when
// no marker is found.
func ParseAnalysis(response string) ParsedAnalysis {
	lower := strings.ToLower(response)

	parsed := ParsedAnalysis{
		Specialist: "Médecin généraliste",
		Urgency:    domain.UrgencyMedium,
		Narrative:  strings.TrimSpace(response),
	}

	for _, m := range specialistMarkers {
		if m.marker == "orl" {
			// "orl" collides with ordinary words, only accept the
			// standalone token.
			if containsToken(lower, "orl") {
				parsed.Specialist = m.specialist
				break
			}
			continue
		}
		if strings.Contains(lower, m.marker) {
			parsed.Specialist = m.specialist
			break
		}
	}

	parsed.Urgency = parseUrgency(lower)
	return parsed
}

func parseUrgency(lower string) domain.Urgency {
	switch {
	case strings.Contains(lower, "urgent") || strings.Contains(lower, "urgence immédiate") || strings.Contains(lower, "urgence immediate"):
		return domain.UrgencyUrgent
	case strings.Contains(lower, "prioritaire") || strings.Contains(lower, "élevé") || strings.Contains(lower, "eleve") || strings.Contains(lower, "high"):
		return domain.UrgencyHigh
	case strings.Contains(lower, "faible") || strings.Contains(lower, "low"):
		return domain.UrgencyLow
	default:
		return domain.UrgencyMedium
	}
}

// containsToken reports whether tok appears in s delimited by non-letter
// runes on both sides.
func containsToken(s, tok string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], tok)
		if j < 0 {
			return false
		}
		j += i
		before := j == 0 || !isLetter(s[j-1])
		afterIdx := j + len(tok)
		after := afterIdx >= len(s) || !isLetter(s[afterIdx])
		if before && after {
			return true
		}
		i = j + len(tok)
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}
