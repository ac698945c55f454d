package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sehha-plus/triage-server/internal/domain"
	"github.com/sehha-plus/triage-server/pkg/llm"
)

// fallbackFollowUpResponse is returned when no completion provider is
// reachable. The questions keep the consultation moving without model
// input.
const fallbackFollowUpResponse = `Merci pour votre réponse. Ces informations complémentaires nous aident à mieux comprendre votre situation médicale.

Basé sur votre échange, il semble important de documenter ces éléments pour votre consultation médicale prochaine.`

var fallbackFollowUpQuestions = []string{
	"Y a-t-il d'autres symptômes associés que vous n'avez pas mentionnés ?",
	"Comment ces symptômes affectent-ils votre quotidien ?",
	"Avez-vous des questions spécifiques à poser à votre médecin ?",
}

const fallbackSupportResponse = `Je vous entends et je comprends que ce que vous traversez est difficile. Vos émotions sont légitimes. Voulez-vous m'en dire un peu plus sur ce que vous ressentez en ce moment ?`

// ChatService handles the guided follow-up exchanges and the anonymous
// mental-health support conversation. Neither flow is ever blocked by a
// provider outage: structured French fallbacks cover both.
type ChatService struct {
	completer Completer
	logger    *logrus.Logger
}

// NewChatService creates the chat service. completer may be nil.
func NewChatService(completer Completer, logger *logrus.Logger) *ChatService {
	return &ChatService{completer: completer, logger: logger}
}

// FollowUpRequest carries one patient answer in the guided consultation.
type FollowUpRequest struct {
	Question        string               `json:"question"`
	PatientResponse string               `json:"patient_response"`
	Symptoms        string               `json:"symptoms"`
	History         []domain.ChatMessage `json:"history,omitempty"`
}

// FollowUp produces the next exchange of the guided consultation.
func (s *ChatService) FollowUp(ctx context.Context, req *FollowUpRequest) *domain.FollowUpExchange {
	if s.completer == nil || !s.completer.Available() {
		return s.fallbackFollowUp(req)
	}

	messages := llm.BuildFollowUpMessages(req.Question, req.PatientResponse, req.Symptoms, req.History)
	response, err := s.completer.Complete(ctx, messages, 0.4, 1000)
	if err != nil {
		s.logger.WithError(err).Warn("Follow-up completion failed, using structured response")
		return s.fallbackFollowUp(req)
	}

	exchange := parseFollowUpResponse(response)
	if exchange == nil {
		return s.fallbackFollowUp(req)
	}
	return exchange
}

// parseFollowUpResponse reads the model's JSON reply. Models wrap JSON in
// prose often enough that the first balanced object is extracted rather
// than unmarshaling the raw text.
func parseFollowUpResponse(response string) *domain.FollowUpExchange {
	raw := extractJSONObject(response)
	if raw == "" {
		return nil
	}

	var payload struct {
		Response          string   `json:"response"`
		NextQuestions     []string `json:"nextQuestions"`
		ReadyForDiagnosis bool     `json:"readyForDiagnosis"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}
	if strings.TrimSpace(payload.Response) == "" {
		payload.Response = "Merci pour votre réponse."
	}

	return &domain.FollowUpExchange{
		Response:          payload.Response,
		NextQuestions:     payload.NextQuestions,
		ReadyForDiagnosis: payload.ReadyForDiagnosis,
	}
}

func (s *ChatService) fallbackFollowUp(req *FollowUpRequest) *domain.FollowUpExchange {
	return &domain.FollowUpExchange{
		Response:          fallbackFollowUpResponse,
		NextQuestions:     append([]string(nil), fallbackFollowUpQuestions...),
		ReadyForDiagnosis: len(req.History) >= 2,
	}
}

// SupportChatRequest carries one turn of the anonymous support chat.
type SupportChatRequest struct {
	Message string               `json:"message"`
	History []domain.ChatMessage `json:"history,omitempty"`
	Mood    string               `json:"mood,omitempty"`
}

// SupportChat produces the listener's reply for the anonymous
// mental-health conversation.
func (s *ChatService) SupportChat(ctx context.Context, req *SupportChatRequest) string {
	if strings.TrimSpace(req.Message) == "" {
		return fallbackSupportResponse
	}
	if s.completer == nil || !s.completer.Available() {
		return fallbackSupportResponse
	}

	messages := llm.BuildMentalHealthMessages(req.Message, req.History, req.Mood)
	response, err := s.completer.Complete(ctx, messages, 0.8, 200)
	if err != nil || strings.TrimSpace(response) == "" {
		if err != nil {
			s.logger.WithError(err).Warn("Support chat completion failed, using fallback reply")
		}
		return fallbackSupportResponse
	}
	return strings.TrimSpace(response)
}

// extractJSONObject returns the first balanced top-level JSON object in
// s, or "" when none exists. Braces inside string literals are skipped.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
