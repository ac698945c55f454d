// Package feedback stores patient feedback on triage orientations. The
// collected agreements and corrections feed the periodic review of the
// keyword rule table.
package feedback

import (
	"context"
	"io"
	"time"
)

// Feedback is one patient's verdict on a triage orientation.
type Feedback struct {
	ID                  int64     `json:"id,omitempty"`
	ConsultationID      string    `json:"consultation_id"`
	SymptomsExcerpt     string    `json:"symptoms_excerpt,omitempty"`
	SuggestedSpecialist string    `json:"suggested_specialist"`
	SuggestedUrgency    string    `json:"suggested_urgency"`
	UserAgreed          bool      `json:"user_agreed"`
	CorrectSpecialist   string    `json:"correct_specialist,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// SpecialistStats aggregates agreement counts for one suggested
// specialist.
type SpecialistStats struct {
	Specialist string `json:"specialist"`
	Total      int64  `json:"total"`
	Agreed     int64  `json:"agreed"`
}

// Store defines the feedback storage operations.
type Store interface {
	// Save stores or updates feedback. Feedback for the same
	// consultation is updated, not duplicated.
	Save(ctx context.Context, fb *Feedback) error

	// Get retrieves the feedback for a consultation, nil when absent.
	Get(ctx context.Context, consultationID string) (*Feedback, error)

	// List returns feedback entries, newest first, with pagination.
	List(ctx context.Context, limit, offset int) ([]*Feedback, error)

	// Count returns the total number of feedback entries.
	Count(ctx context.Context) (int64, error)

	// StatsBySpecialist returns per-specialist agreement counts.
	StatsBySpecialist(ctx context.Context) ([]SpecialistStats, error)

	// Delete removes a feedback entry by ID.
	Delete(ctx context.Context, id int64) error

	// ExportJSON writes all feedback as JSON.
	ExportJSON(ctx context.Context, w io.Writer) error

	// ImportJSON reads feedback from JSON, skipping consultations that
	// already have an entry.
	ImportJSON(ctx context.Context, r io.Reader) (imported int, skipped int, err error)

	// Close releases the store's resources.
	Close() error
}

// Export is the JSON export envelope.
type Export struct {
	Version    string      `json:"version"`
	ExportedAt time.Time   `json:"exported_at"`
	Count      int         `json:"count"`
	Feedback   []*Feedback `json:"feedback"`
}
