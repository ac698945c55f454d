package domain

import (
	"time"
)

// ClassificationRule maps a set of trigger keywords to a specialist
// referral. Rules are static configuration loaded once at process start
// and evaluated in ascending Priority order; the first rule with any
// keyword contained in the normalized report text wins.
type ClassificationRule struct {
	// Priority is the explicit evaluation rank. Lower evaluates first.
	// Cardiac rules carry the lowest rank so that overlapping terms such
	// as "douleur" cannot be misrouted to a later specialty.
	Priority int `json:"priority"`

	// Keywords are stored in canonical form: lowercase, accents stripped.
	Keywords []string `json:"keywords"`

	// Specialist is the canonical referral target, e.g. "Cardiologue".
	Specialist string `json:"specialist"`

	// Urgency is the base triage level for the rule.
	Urgency Urgency `json:"urgency"`

	// EscalationKeywords optionally upgrade Urgency to EscalatedUrgency
	// when present alongside a base keyword. Used by the dermatological
	// rule for suspicious mole changes. The base keyword gate applies
	// first: escalation keywords alone never match the rule.
	EscalationKeywords []string `json:"escalation_keywords,omitempty"`
	EscalatedUrgency   Urgency  `json:"escalated_urgency,omitempty"`

	// Investigations are rendered verbatim, in order, in the
	// recommendations block.
	Investigations []string `json:"investigations"`

	// DomainLabel is the French symptom-category adjective used in
	// narrative templates, e.g. "cardiovasculaires".
	DomainLabel string `json:"domain_label"`
}

// ClassificationResult is the rule matcher's output, produced fresh per
// request and never persisted on its own.
type ClassificationResult struct {
	Matched        bool     `json:"matched"`
	Specialist     string   `json:"specialist"`
	Urgency        Urgency  `json:"urgency"`
	Investigations []string `json:"investigations,omitempty"`
	DomainLabel    string   `json:"domain_label,omitempty"`
}

// TriageAnalysis is the complete synthesized output returned to the
// caller: the pre-diagnosis narrative, the recommendations block, the
// support message and the follow-up questions.
type TriageAnalysis struct {
	PreDiagnosis      string      `json:"pre_diagnosis"`
	Urgency           Urgency     `json:"urgency_level"`
	Recommendations   string      `json:"recommendations"`
	AnxietyTier       AnxietyTier `json:"niveau_anxiete"`
	SupportMessage    string      `json:"message_soutien"`
	FollowUpQuestions []string    `json:"follow_up_questions,omitempty"`
	Specialist        string      `json:"specialist,omitempty"`
	Source            string      `json:"source,omitempty"` // "rules", "llm" or "fallback"
}

// Consultation is the stored record of one analysis, mirroring what the
// patient sees on the dashboard and in the exported PDF.
type Consultation struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Symptoms        string      `json:"symptoms"`
	Duration        string      `json:"duration,omitempty"`
	MedicalHistory  string      `json:"medical_history,omitempty"`
	PreDiagnosis    string      `json:"pre_diagnosis"`
	Urgency         Urgency     `json:"urgency_level"`
	Recommendations string      `json:"recommendations"`
	AnxietyTier     AnxietyTier `json:"niveau_anxiete"`
	SupportMessage  string      `json:"message_soutien"`
	PDFGenerated    bool        `json:"pdf_generated"`
	CreatedAt       time.Time   `json:"created_at"`
}

// ChatMessage is one turn of the follow-up or anonymous support chat.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// FollowUpExchange is the synthesized reply to one patient answer during
// the guided consultation chat.
type FollowUpExchange struct {
	Response          string   `json:"response"`
	NextQuestions     []string `json:"next_questions,omitempty"`
	ReadyForDiagnosis bool     `json:"ready_for_diagnosis"`
}
