package triage

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ligatureReplacer = strings.NewReplacer("œ", "oe", "æ", "ae")

// Normalize folds a symptom text to the canonical matching form:
// lowercase, ligatures expanded, combining accents stripped. Rule
// keywords are stored in this form, so "dyspnée", "Dyspnee" and
// "DYSPNÉE" all hit the same keyword.
//
// The original rule lists compensated for accents by duplicating each
// spelling variant; folding once here also matches accent variants the
// lists omitted, which is a deliberate widening.
func Normalize(text string) string {
	lowered := ligatureReplacer.Replace(strings.ToLower(text))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, lowered)
	if err != nil {
		return lowered
	}
	return folded
}

// containsAny reports whether any keyword is a substring of the
// normalized text. Matching is plain containment: no stemming, no
// tokenization, no word boundaries.
func containsAny(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// truncateRunes cuts s at limit code points. The boolean reports whether
// anything was cut; callers append the ellipsis marker themselves.
// Truncating on runes rather than bytes keeps multi-byte characters
// intact.
func truncateRunes(s string, limit int) (string, bool) {
	r := []rune(s)
	if len(r) <= limit {
		return s, false
	}
	return string(r[:limit]), true
}
