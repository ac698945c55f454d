// Package domain contains the core business entities for the Sehha+ triage
// engine: symptom reports, classification rules, urgency levels, anxiety
// tiers and the synthesized analysis returned to patients.
//
// All text produced by the engine is French; the platform serves
// French-speaking patients in Morocco.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Urgency is the ordinal triage severity attached to every analysis.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

// AnxietyTier estimates the patient's apparent emotional distress. It only
// selects a support-message template and never affects specialist routing.
type AnxietyTier string

const (
	AnxietyMild     AnxietyTier = "léger"
	AnxietyModerate AnxietyTier = "modéré"
	AnxietyHigh     AnxietyTier = "élevé"
)

// SupportCategory selects which family of support messages applies.
type SupportCategory string

const (
	SupportMentalHealth SupportCategory = "mental-health"
	SupportPhysicalPain SupportCategory = "physical-pain"
	SupportGeneral      SupportCategory = "general"
)

// Validation errors shared across the triage pipeline.
var (
	ErrInvalidInput   = errors.New("symptom text is required")
	ErrInvalidUrgency = errors.New("invalid urgency level")
	ErrInvalidTier    = errors.New("invalid anxiety tier")
	ErrNotFound       = errors.New("not found")
)

// IsValid reports whether the urgency is one of the four triage levels.
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent:
		return true
	default:
		return false
	}
}

// String returns the string representation of the urgency.
func (u Urgency) String() string {
	return string(u)
}

// Rank returns the ordinal position of the urgency (low < medium < high <
// urgent). Unknown values rank below low.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyLow:
		return 1
	case UrgencyMedium:
		return 2
	case UrgencyHigh:
		return 3
	case UrgencyUrgent:
		return 4
	default:
		return 0
	}
}

// Label returns the French consultation-delay label rendered verbatim in
// the recommendations block.
func (u Urgency) Label() string {
	switch u {
	case UrgencyUrgent:
		return "URGENT"
	case UrgencyHigh:
		return "PRIORITAIRE"
	case UrgencyMedium:
		return "À PRÉVOIR"
	case UrgencyLow:
		return "RECOMMANDÉ"
	default:
		return "À PRÉVOIR"
	}
}

// LogFields returns structured logging fields for audit trails.
func (u Urgency) LogFields() map[string]any {
	return map[string]any{
		"urgency":       string(u),
		"urgency_label": u.Label(),
		"urgency_rank":  u.Rank(),
		"is_valid":      u.IsValid(),
	}
}

// IsValid reports whether the tier is one of the three anxiety levels.
func (t AnxietyTier) IsValid() bool {
	switch t {
	case AnxietyMild, AnxietyModerate, AnxietyHigh:
		return true
	default:
		return false
	}
}

// String returns the French tier name used in stored consultations.
func (t AnxietyTier) String() string {
	return string(t)
}

// IsValid reports whether the category is a known support family.
func (c SupportCategory) IsValid() bool {
	switch c {
	case SupportMentalHealth, SupportPhysicalPain, SupportGeneral:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c SupportCategory) String() string {
	return string(c)
}

// PatientProfile carries contextual patient information passed through to
// the LLM prompt and the PDF report. It is never used by the rule matcher.
type PatientProfile struct {
	Age         int    `json:"age,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Medications string `json:"medications,omitempty"`
	Allergies   string `json:"allergies,omitempty"`
}

// SymptomReport is the immutable input to a single analysis.
type SymptomReport struct {
	Text           string          `json:"text" validate:"required"`
	DurationLabel  string          `json:"duration_label,omitempty"`
	MedicalHistory string          `json:"medical_history,omitempty"`
	Profile        *PatientProfile `json:"profile,omitempty"`
}

// Validate ensures the report can enter the triage pipeline. Empty symptom
// text is the only caller-side failure; classification itself is total.
func (r *SymptomReport) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("symptom report validation: %w", ErrInvalidInput)
	}
	return nil
}
