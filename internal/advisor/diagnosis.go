package advisor

import (
	"context"
	_ "embed"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"advisor-backend/internal/llm"
	"advisor-backend/internal/shared/telemetry"
)

//go:embed prompts/diagnosis_v1.txt
var diagnosisPrompt string

//go:embed prompts/refine_v1.txt
var refinePrompt string

// ErrShortDescription is returned when a diagnosis description is too short
// to analyze.
var ErrShortDescription = errors.New("business description too short")

const minDescriptionLen = 10

// DiagnosisRequest starts a free-form diagnosis conversation.
type DiagnosisRequest struct {
	Description  string `json:"description" binding:"required"`
	BusinessType string `json:"businessType"`
}

// Diagnosis is the structured reading of a free-text diagnosis reply.
type Diagnosis struct {
	IdentifiedProblems []string `json:"identifiedProblems"`
	SolutionCategories []string `json:"solutionCategories"`
	RawAnalysis        string   `json:"rawAnalysis"`
}

// DiagnosisResult is the response envelope for an initial diagnosis.
type DiagnosisResult struct {
	Success      bool      `json:"success"`
	AnalysisID   string    `json:"analysisId,omitempty"`
	Diagnosis    Diagnosis `json:"diagnosis"`
	RawDiagnosis string    `json:"rawDiagnosis"`
	Provider     string    `json:"provider"`
	Message      string    `json:"message"`
}

// RefineRequest adds a follow-up question to an existing diagnosis.
type RefineRequest struct {
	AnalysisID string `json:"analysisId" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

// RefineResult is the response envelope for a refinement turn.
type RefineResult struct {
	Success     bool          `json:"success"`
	AnalysisID  string        `json:"analysisId"`
	Response    string        `json:"response"`
	Provider    string        `json:"provider"`
	ChatHistory []ChatMessage `json:"chatHistory"`
}

// Diagnose runs the initial free-text diagnosis and opens a conversation
// that Refine can continue.
func (s *Service) Diagnose(ctx context.Context, req DiagnosisRequest) (DiagnosisResult, error) {
	desc := strings.TrimSpace(req.Description)
	if len([]rune(desc)) < minDescriptionLen {
		return DiagnosisResult{}, ErrShortDescription
	}

	completion, err := s.LLM.Complete(ctx, llm.CompleteInput{
		System: diagnosisPrompt,
		User:   "Please analyze this business and identify key security exposures and protective controls:\n\n" + desc,
	})
	if err != nil {
		return DiagnosisResult{}, &UpstreamError{Err: err}
	}

	diag := ParseDiagnosis(completion.Text)
	profile := Profile{
		Industry:    strings.TrimSpace(req.BusinessType),
		Description: desc,
		Language:    "en",
	}
	analysisID := s.record(ctx, profile, Analysis{
		Status: StatusCompleted,
		Result: map[string]any{
			"rawDiagnosis":       diag.RawAnalysis,
			"identifiedProblems": diag.IdentifiedProblems,
			"solutionCategories": diag.SolutionCategories,
		},
	})

	return DiagnosisResult{
		Success:      true,
		AnalysisID:   analysisID,
		Diagnosis:    diag,
		RawDiagnosis: completion.Text,
		Provider:     s.source(),
		Message:      "Initial diagnosis complete. Ready for follow-up questions.",
	}, nil
}

// Refine continues the diagnosis conversation for an analysis: the stored
// transcript plus the new question go back to the model, and both the
// question and the reply are appended to the transcript.
func (s *Service) Refine(ctx context.Context, req RefineRequest) (RefineResult, error) {
	analysis, err := s.Repo.GetByID(ctx, req.AnalysisID)
	if err != nil {
		return RefineResult{}, err
	}

	history, err := s.chatHistory(ctx, analysis.ID)
	if err != nil {
		return RefineResult{}, err
	}

	messages := make([]llm.Message, 0, len(history)+1)
	for _, msg := range history {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Message})

	completion, err := s.LLM.Complete(ctx, llm.CompleteInput{
		System:   refinePrompt,
		Messages: messages,
	})
	if err != nil {
		return RefineResult{}, &UpstreamError{Err: err}
	}

	now := time.Now().UTC()
	userMsg := ChatMessage{
		ID:         uuid.NewString(),
		AnalysisID: analysis.ID,
		Role:       llm.RoleUser,
		Content:    req.Message,
		Provider:   "client",
		Model:      "user-input",
		CreatedAt:  now,
	}
	assistantMsg := ChatMessage{
		ID:         uuid.NewString(),
		AnalysisID: analysis.ID,
		Role:       llm.RoleAssistant,
		Content:    completion.Text,
		Provider:   s.source(),
		Model:      s.Model,
		CreatedAt:  now.Add(time.Millisecond),
	}
	s.saveChatMessage(ctx, userMsg)
	s.saveChatMessage(ctx, assistantMsg)

	return RefineResult{
		Success:     true,
		AnalysisID:  analysis.ID,
		Response:    completion.Text,
		Provider:    s.source(),
		ChatHistory: append(append(history, userMsg), assistantMsg),
	}, nil
}

func (s *Service) chatHistory(ctx context.Context, analysisID string) ([]ChatMessage, error) {
	if s.Chat == nil {
		return []ChatMessage{}, nil
	}
	return s.Chat.ListMessages(ctx, analysisID)
}

// saveChatMessage persists best-effort, like record: losing a transcript
// entry must not fail a turn that already has its reply.
func (s *Service) saveChatMessage(ctx context.Context, msg ChatMessage) {
	if s.Chat == nil {
		return
	}
	if err := s.Chat.CreateMessage(ctx, msg); err != nil {
		telemetry.Error("chat.persist_failed", map[string]any{
			"analysis_id": msg.AnalysisID,
			"role":        msg.Role,
			"error":       err.Error(),
		})
	}
}

var (
	problemsHeader   = regexp.MustCompile(`(?i)problems?:`)
	categoriesHeader = regexp.MustCompile(`(?i)categor(?:ies|y):`)
	trailingHeaders  = regexp.MustCompile(`(?i)implementation:|priority:`)
	bulletPrefix     = regexp.MustCompile(`^[-*•]\s*`)
)

// ParseDiagnosis pulls the problem and category lists out of a free-text
// diagnosis. The model is asked for labeled dashed sections; anything that
// doesn't match simply yields empty lists with the raw text preserved.
func ParseDiagnosis(content string) Diagnosis {
	return Diagnosis{
		IdentifiedProblems: bulletLines(sectionAfter(content, problemsHeader, categoriesHeader, trailingHeaders)),
		SolutionCategories: bulletLines(sectionAfter(content, categoriesHeader, trailingHeaders)),
		RawAnalysis:        content,
	}
}

// sectionAfter returns the text between the header and the nearest of the
// stop patterns (or end of input). Missing header yields "".
func sectionAfter(content string, header *regexp.Regexp, stops ...*regexp.Regexp) string {
	loc := header.FindStringIndex(content)
	if loc == nil {
		return ""
	}
	rest := content[loc[1]:]
	end := len(rest)
	for _, stop := range stops {
		if sl := stop.FindStringIndex(rest); sl != nil && sl[0] < end {
			end = sl[0]
		}
	}
	return rest[:end]
}

func bulletLines(section string) []string {
	out := []string{}
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		line = bulletPrefix.ReplaceAllString(line, "")
		if line != "" {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}
