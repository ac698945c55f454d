// Package repository contains the pgx-backed persistence layer for
// consultation records.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/sehha-plus/triage-server/internal/domain"
)

// ConsultationRepository persists triage consultations.
type ConsultationRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewConsultationRepository creates a consultation repository.
func NewConsultationRepository(db *pgxpool.Pool, logger *logrus.Logger) *ConsultationRepository {
	return &ConsultationRepository{
		db:  db,
		log: logger,
	}
}

// Create inserts a consultation record. A missing ID is generated here so
// callers can pass a zero-value record straight from the analysis path.
func (r *ConsultationRepository) Create(ctx context.Context, c *domain.Consultation) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO consultations (
			id, user_id, symptoms, duration, medical_history, pre_diagnosis,
			urgency_level, recommendations, niveau_anxiete, message_soutien,
			pdf_generated, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)`

	_, err := r.db.Exec(ctx, query,
		c.ID,
		c.UserID,
		c.Symptoms,
		c.Duration,
		c.MedicalHistory,
		c.PreDiagnosis,
		string(c.Urgency),
		c.Recommendations,
		string(c.AnxietyTier),
		c.SupportMessage,
		c.PDFGenerated,
		c.CreatedAt,
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"consultation_id": c.ID,
			"user_id":         c.UserID,
			"error":           err,
		}).Error("Failed to create consultation")
		return fmt.Errorf("creating consultation: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"consultation_id": c.ID,
		"user_id":         c.UserID,
		"urgency":         c.Urgency,
	}).Info("Consultation created")

	return nil
}

// GetByID retrieves a consultation.
func (r *ConsultationRepository) GetByID(ctx context.Context, id string) (*domain.Consultation, error) {
	query := `
		SELECT id, user_id, symptoms, duration, medical_history, pre_diagnosis,
			   urgency_level, recommendations, niveau_anxiete, message_soutien,
			   pdf_generated, created_at
		FROM consultations
		WHERE id = $1`

	var c domain.Consultation
	var urgency, tier string

	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.UserID,
		&c.Symptoms,
		&c.Duration,
		&c.MedicalHistory,
		&c.PreDiagnosis,
		&urgency,
		&c.Recommendations,
		&tier,
		&c.SupportMessage,
		&c.PDFGenerated,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("consultation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting consultation: %w", err)
	}

	c.Urgency = domain.Urgency(urgency)
	c.AnxietyTier = domain.AnxietyTier(tier)
	return &c, nil
}

// ListByUser returns the user's consultations, newest first.
func (r *ConsultationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Consultation, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, symptoms, duration, medical_history, pre_diagnosis,
			   urgency_level, recommendations, niveau_anxiete, message_soutien,
			   pdf_generated, created_at
		FROM consultations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing consultations: %w", err)
	}
	defer rows.Close()

	var consultations []*domain.Consultation
	for rows.Next() {
		var c domain.Consultation
		var urgency, tier string
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Symptoms,
			&c.Duration,
			&c.MedicalHistory,
			&c.PreDiagnosis,
			&urgency,
			&c.Recommendations,
			&tier,
			&c.SupportMessage,
			&c.PDFGenerated,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning consultation: %w", err)
		}
		c.Urgency = domain.Urgency(urgency)
		c.AnxietyTier = domain.AnxietyTier(tier)
		consultations = append(consultations, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating consultations: %w", err)
	}

	return consultations, nil
}

// MarkReportGenerated flags the consultation after a successful PDF
// export.
func (r *ConsultationRepository) MarkReportGenerated(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE consultations SET pdf_generated = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("marking report generated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("consultation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
