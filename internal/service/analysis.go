// Package service orchestrates the triage pipeline: rule classification,
// optional language-model consultation, narrative synthesis, caching and
// persistence.
package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sehha-plus/triage-server/internal/domain"
	"github.com/sehha-plus/triage-server/internal/triage"
	"github.com/sehha-plus/triage-server/pkg/llm"
)

// Completer is the text-completion surface the service needs. The real
// implementation chains Groq and DeepSeek with circuit breakers.
type Completer interface {
	Available() bool
	Complete(ctx context.Context, messages []llm.ChatMessage, temperature float64, maxTokens int) (string, error)
}

// ConsultationStore persists analysis results.
type ConsultationStore interface {
	Create(ctx context.Context, c *domain.Consultation) error
	GetByID(ctx context.Context, id string) (*domain.Consultation, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Consultation, error)
	MarkReportGenerated(ctx context.Context, id string) error
}

// AnalysisCache caches synthesized analyses by normalized symptom text.
type AnalysisCache interface {
	Get(ctx context.Context, normalizedText string) (*domain.TriageAnalysis, bool)
	Set(ctx context.Context, normalizedText string, analysis *domain.TriageAnalysis, ttl time.Duration)
}

// AnalysisService runs the symptom-to-analysis pipeline. The rule table
// is authoritative: the language model is consulted only when no rule
// fires, and its output never overrides a rule verdict.
type AnalysisService struct {
	matcher       *triage.Matcher
	synthesizer   *triage.Synthesizer
	completer     Completer
	cache         AnalysisCache
	consultations ConsultationStore
	logger        *logrus.Logger
}

// NewAnalysisService creates the analysis service. completer, cache and
// consultations may be nil; the deterministic pipeline works without
// them.
func NewAnalysisService(
	matcher *triage.Matcher,
	synthesizer *triage.Synthesizer,
	completer Completer,
	cache AnalysisCache,
	consultations ConsultationStore,
	logger *logrus.Logger,
) *AnalysisService {
	return &AnalysisService{
		matcher:       matcher,
		synthesizer:   synthesizer,
		completer:     completer,
		cache:         cache,
		consultations: consultations,
		logger:        logger,
	}
}

// Analyze runs the full pipeline for one symptom report and stores the
// resulting consultation under userID. Persistence failures degrade to a
// warning; the patient still receives the analysis.
func (s *AnalysisService) Analyze(ctx context.Context, userID string, report *domain.SymptomReport) (*domain.TriageAnalysis, *domain.Consultation, error) {
	if err := report.Validate(); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	normalized := triage.Normalize(report.Text)

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, normalized); ok {
			s.logger.WithFields(logrus.Fields{
				"user_id": userID,
				"source":  cached.Source,
			}).Debug("Analysis served from cache")
			consultation := s.persist(ctx, userID, report, cached)
			return cached, consultation, nil
		}
	}

	analysis := s.analyze(ctx, report)

	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"specialist":  analysis.Specialist,
		"urgency":     analysis.Urgency,
		"anxiety":     analysis.AnxietyTier,
		"source":      analysis.Source,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Symptom analysis completed")

	if s.cache != nil {
		s.cache.Set(ctx, normalized, analysis, 0)
	}

	consultation := s.persist(ctx, userID, report, analysis)
	return analysis, consultation, nil
}

// analyze produces the analysis without side effects. Rule match first,
// model second, structured fallback last.
func (s *AnalysisService) analyze(ctx context.Context, report *domain.SymptomReport) *domain.TriageAnalysis {
	result := s.matcher.Classify(report.Text)
	if result.Matched {
		analysis := s.synthesizer.Synthesize(result, report.Text)
		return &analysis
	}

	if s.completer != nil && s.completer.Available() {
		messages := llm.BuildAnalysisMessages(report)
		response, err := s.completer.Complete(ctx, messages, 0.2, 1500)
		if err == nil {
			parsed := llm.ParseAnalysis(response)
			urgency := parsed.Urgency
			// An elevated urgency-scan verdict floors the model's reading;
			// the scan's default medium does not.
			if result.Urgency.Rank() > domain.UrgencyMedium.Rank() && result.Urgency.Rank() > urgency.Rank() {
				urgency = result.Urgency
			}
			analysis := s.synthesizer.SynthesizeAdvisory(parsed.Specialist, urgency, parsed.Narrative, report.Text)
			return &analysis
		}
		s.logger.WithError(err).Warn("Model analysis failed, using structured fallback")
	}

	analysis := s.synthesizer.Synthesize(result, report.Text)
	return &analysis
}

func (s *AnalysisService) persist(ctx context.Context, userID string, report *domain.SymptomReport, analysis *domain.TriageAnalysis) *domain.Consultation {
	if s.consultations == nil {
		return nil
	}

	consultation := &domain.Consultation{
		UserID:          userID,
		Symptoms:        report.Text,
		Duration:        report.DurationLabel,
		MedicalHistory:  report.MedicalHistory,
		PreDiagnosis:    analysis.PreDiagnosis,
		Urgency:         analysis.Urgency,
		Recommendations: analysis.Recommendations,
		AnxietyTier:     analysis.AnxietyTier,
		SupportMessage:  analysis.SupportMessage,
	}

	if err := s.consultations.Create(ctx, consultation); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to persist consultation")
		return nil
	}
	return consultation
}

// GetConsultation retrieves a stored consultation.
func (s *AnalysisService) GetConsultation(ctx context.Context, id string) (*domain.Consultation, error) {
	if s.consultations == nil {
		return nil, domain.ErrNotFound
	}
	return s.consultations.GetByID(ctx, id)
}

// ListConsultations returns the user's consultation history, newest
// first.
func (s *AnalysisService) ListConsultations(ctx context.Context, userID string, limit int) ([]*domain.Consultation, error) {
	if s.consultations == nil {
		return nil, nil
	}
	return s.consultations.ListByUser(ctx, userID, limit)
}

// MarkReportGenerated records that a PDF report was produced for the
// consultation.
func (s *AnalysisService) MarkReportGenerated(ctx context.Context, id string) error {
	if s.consultations == nil {
		return domain.ErrNotFound
	}
	return s.consultations.MarkReportGenerated(ctx, id)
}
