package triage

import (
	"sort"

	"github.com/sehha-plus/triage-server/internal/domain"
)

// Matcher routes symptom text to a specialist referral using the ordered
// rule table. It holds no mutable state after construction and is safe
// for concurrent use.
type Matcher struct {
	rules []domain.ClassificationRule
}

// NewMatcher creates a matcher over the default rule table, sorted by
// explicit priority rank.
func NewMatcher() *Matcher {
	return newMatcherWithRules(defaultRules())
}

func newMatcherWithRules(rules []domain.ClassificationRule) *Matcher {
	sorted := make([]domain.ClassificationRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return &Matcher{rules: sorted}
}

// Rules returns the ordered rule table.
func (m *Matcher) Rules() []domain.ClassificationRule {
	return m.rules
}

// Classify maps free-text symptoms to a specialist referral. The first
// rule (in priority order) with any keyword contained in the folded text
// wins. When no rule fires the result carries Matched=false, the generic
// specialist and an urgency derived from the independent urgency-only
// scan (medium unless elevated).
//
// Classification is total over any input: there is no error path.
func (m *Matcher) Classify(reportText string) domain.ClassificationResult {
	normalized := Normalize(reportText)

	for _, rule := range m.rules {
		if !containsAny(normalized, rule.Keywords) {
			continue
		}

		urgency := rule.Urgency
		if len(rule.EscalationKeywords) > 0 && containsAny(normalized, rule.EscalationKeywords) {
			urgency = rule.EscalatedUrgency
		}

		return domain.ClassificationResult{
			Matched:        true,
			Specialist:     rule.Specialist,
			Urgency:        urgency,
			Investigations: rule.Investigations,
			DomainLabel:    rule.DomainLabel,
		}
	}

	return domain.ClassificationResult{
		Matched:    false,
		Specialist: FallbackSpecialist,
		Urgency:    m.scanUrgency(normalized),
	}
}

// scanUrgency is the fallback-path urgency assessment, independent from
// the specialist rules.
func (m *Matcher) scanUrgency(normalized string) domain.Urgency {
	if containsAny(normalized, urgentScanKeywords) {
		return domain.UrgencyUrgent
	}
	if containsAny(normalized, highScanKeywords) {
		return domain.UrgencyHigh
	}
	return domain.UrgencyMedium
}
