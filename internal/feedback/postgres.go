package feedback

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store over PostgreSQL, for deployments that
// keep feedback next to the consultation records.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an existing connection. The feedback table is
// expected to exist already (created via migrations).
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL opens a connection from a URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewPostgresStore(db)
}

// Save stores or updates feedback for a consultation using an upsert on
// the consultation_id unique constraint.
func (s *PostgresStore) Save(ctx context.Context, fb *Feedback) error {
	now := time.Now()
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = now
	}
	fb.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO feedback (
			consultation_id, symptoms_excerpt, suggested_specialist,
			suggested_urgency, user_agreed, correct_specialist, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (consultation_id) DO UPDATE SET
			symptoms_excerpt = EXCLUDED.symptoms_excerpt,
			suggested_specialist = EXCLUDED.suggested_specialist,
			suggested_urgency = EXCLUDED.suggested_urgency,
			user_agreed = EXCLUDED.user_agreed,
			correct_specialist = EXCLUDED.correct_specialist,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`,
		fb.ConsultationID,
		fb.SymptomsExcerpt,
		fb.SuggestedSpecialist,
		fb.SuggestedUrgency,
		fb.UserAgreed,
		fb.CorrectSpecialist,
		fb.Notes,
		fb.CreatedAt,
		fb.UpdatedAt,
	).Scan(&fb.ID)
	if err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

// Get retrieves feedback for a consultation, nil when none exists.
func (s *PostgresStore) Get(ctx context.Context, consultationID string) (*Feedback, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, consultation_id, symptoms_excerpt,
			suggested_specialist, suggested_urgency, user_agreed,
			correct_specialist, notes, created_at, updated_at
		FROM feedback
		WHERE consultation_id = $1
		LIMIT 1
	`, consultationID)

	fb, err := scanFeedback(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return fb, nil
}

// List returns feedback entries, newest first.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, consultation_id, symptoms_excerpt,
			suggested_specialist, suggested_urgency, user_agreed,
			correct_specialist, notes, created_at, updated_at
		FROM feedback
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*Feedback
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, fb)
	}
	return result, rows.Err()
}

// Count returns the total number of feedback entries.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback").Scan(&count)
	return count, err
}

// StatsBySpecialist returns per-specialist agreement counts.
func (s *PostgresStore) StatsBySpecialist(ctx context.Context) ([]SpecialistStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT suggested_specialist, COUNT(*),
			COUNT(*) FILTER (WHERE user_agreed)
		FROM feedback
		GROUP BY suggested_specialist
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	var stats []SpecialistStats
	for rows.Next() {
		var st SpecialistStats
		if err := rows.Scan(&st.Specialist, &st.Total, &st.Agreed); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// Delete removes a feedback entry by ID.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM feedback WHERE id = $1", id)
	return err
}

// ExportJSON writes all feedback as an indented JSON envelope.
func (s *PostgresStore) ExportJSON(ctx context.Context, w io.Writer) error {
	all, err := s.List(ctx, maxExportLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list feedback: %w", err)
	}

	export := &Export{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Count:      len(all),
		Feedback:   all,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// ImportJSON reads feedback from JSON, skipping consultations that
// already have an entry.
func (s *PostgresStore) ImportJSON(ctx context.Context, r io.Reader) (imported int, skipped int, err error) {
	var export Export
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return 0, 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	for _, fb := range export.Feedback {
		existing, err := s.Get(ctx, fb.ConsultationID)
		if err != nil {
			return imported, skipped, fmt.Errorf("failed to check existing: %w", err)
		}
		if existing != nil {
			skipped++
			continue
		}
		if err := s.Save(ctx, fb); err != nil {
			return imported, skipped, fmt.Errorf("failed to save: %w", err)
		}
		imported++
	}

	return imported, skipped, nil
}

// Close closes the underlying connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
