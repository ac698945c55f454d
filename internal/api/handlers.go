package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sehha-plus/triage-server/internal/domain"
	"github.com/sehha-plus/triage-server/internal/feedback"
	"github.com/sehha-plus/triage-server/internal/service"
)

// analyzeRequest is the payload for POST /api/v1/analyze.
type analyzeRequest struct {
	UserID         string                 `json:"user_id"`
	Symptoms       string                 `json:"symptoms" binding:"required"`
	Duration       string                 `json:"duration,omitempty"`
	MedicalHistory string                 `json:"medical_history,omitempty"`
	Profile        *domain.PatientProfile `json:"profile,omitempty"`
}

type analyzeResponse struct {
	Analysis       *domain.TriageAnalysis `json:"analysis"`
	ConsultationID string                 `json:"consultation_id,omitempty"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid request body", err.Error())
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}

	report := &domain.SymptomReport{
		Text:           req.Symptoms,
		DurationLabel:  req.Duration,
		MedicalHistory: req.MedicalHistory,
		Profile:        req.Profile,
	}

	analysis, consultation, err := s.analysis.Analyze(c.Request.Context(), userID, report)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "symptom description is required", "")
			return
		}
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeInternal, "analysis failed", "")
		return
	}

	resp := analyzeResponse{Analysis: analysis}
	if consultation != nil {
		resp.ConsultationID = consultation.ID
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleFollowUp(c *gin.Context) {
	var req service.FollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid request body", err.Error())
		return
	}

	exchange := s.chat.FollowUp(c.Request.Context(), &req)
	c.JSON(http.StatusOK, exchange)
}

type supportChatResponse struct {
	Response string `json:"response"`
}

func (s *Server) handleSupportChat(c *gin.Context) {
	var req service.SupportChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid request body", err.Error())
		return
	}

	reply := s.chat.SupportChat(c.Request.Context(), &req)
	c.JSON(http.StatusOK, supportChatResponse{Response: reply})
}

func (s *Server) handleListConsultations(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "user_id query parameter is required", "")
		return
	}

	consultations, err := s.analysis.ListConsultations(c.Request.Context(), userID, 50)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, "failed to list consultations", "")
		return
	}
	if consultations == nil {
		consultations = []*domain.Consultation{}
	}
	c.JSON(http.StatusOK, gin.H{"consultations": consultations})
}

func (s *Server) handleGetConsultation(c *gin.Context) {
	consultation, err := s.analysis.GetConsultation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.respondError(c, http.StatusNotFound, domain.ErrCodeNotFound, "consultation not found", "")
			return
		}
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, "failed to load consultation", "")
		return
	}
	c.JSON(http.StatusOK, consultation)
}

func (s *Server) handleConsultationReport(c *gin.Context) {
	if s.reports == nil {
		s.respondError(c, http.StatusServiceUnavailable, domain.ErrCodeReportExport, "report export is not configured", "")
		return
	}

	id := c.Param("id")
	consultation, err := s.analysis.GetConsultation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.respondError(c, http.StatusNotFound, domain.ErrCodeNotFound, "consultation not found", "")
			return
		}
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, "failed to load consultation", "")
		return
	}

	data, err := s.reports.Generate(consultation)
	if err != nil {
		s.logger.WithError(err).WithField("consultation_id", id).Error("Report generation failed")
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeReportExport, "failed to generate report", "")
		return
	}

	if err := s.analysis.MarkReportGenerated(c.Request.Context(), id); err != nil {
		s.logger.WithError(err).WithField("consultation_id", id).Warn("Failed to flag generated report")
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="rapport-consultation-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", data)
}

// feedbackRequest is the payload for POST /api/v1/feedback.
type feedbackRequest struct {
	ConsultationID      string `json:"consultation_id" binding:"required"`
	SymptomsExcerpt     string `json:"symptoms_excerpt,omitempty"`
	SuggestedSpecialist string `json:"suggested_specialist" binding:"required"`
	SuggestedUrgency    string `json:"suggested_urgency" binding:"required"`
	UserAgreed          bool   `json:"user_agreed"`
	CorrectSpecialist   string `json:"correct_specialist,omitempty"`
	Notes               string `json:"notes,omitempty"`
}

func (s *Server) handleSaveFeedback(c *gin.Context) {
	if s.feedback == nil {
		s.respondError(c, http.StatusServiceUnavailable, domain.ErrCodeInternal, "feedback storage is not configured", "")
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid request body", err.Error())
		return
	}
	if !domain.Urgency(req.SuggestedUrgency).IsValid() {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid urgency level", req.SuggestedUrgency)
		return
	}

	fb := &feedback.Feedback{
		ConsultationID:      req.ConsultationID,
		SymptomsExcerpt:     req.SymptomsExcerpt,
		SuggestedSpecialist: req.SuggestedSpecialist,
		SuggestedUrgency:    req.SuggestedUrgency,
		UserAgreed:          req.UserAgreed,
		CorrectSpecialist:   req.CorrectSpecialist,
		Notes:               req.Notes,
	}

	if err := s.feedback.Save(c.Request.Context(), fb); err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, "failed to save feedback", "")
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (s *Server) handleFeedbackStats(c *gin.Context) {
	if s.feedback == nil {
		s.respondError(c, http.StatusServiceUnavailable, domain.ErrCodeInternal, "feedback storage is not configured", "")
		return
	}

	stats, err := s.feedback.StatsBySpecialist(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, "failed to compute stats", "")
		return
	}
	if stats == nil {
		stats = []feedback.SpecialistStats{}
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (s *Server) handleHealth(c *gin.Context) {
	status := "healthy"
	checks := gin.H{"rules": fmt.Sprintf("%d specialists", len(s.matcher.Rules()))}

	if s.db != nil {
		if err := s.db.Health(c.Request.Context()); err != nil {
			status = "degraded"
			checks["database"] = "unreachable"
		} else {
			checks["database"] = "ok"
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) respondError(c *gin.Context, status int, code, message, details string) {
	c.JSON(status, domain.NewAPIError(code, message, details, c.GetString("request_id")))
}
