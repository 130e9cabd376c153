package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"advisor-backend/internal/llm"
	"advisor-backend/internal/shared/telemetry"
)

// Service runs the advisory pipeline: prompt the model, normalize its output,
// score the recommendations, and record the run.
type Service struct {
	Repo     Repo
	Chat     ChatRepo
	LLM      llm.Client
	Provider string
	Model    string
}

// Result is the response envelope for a completed advisory run.
type Result struct {
	Success          bool             `json:"success"`
	Diagnosis        map[string]any   `json:"diagnosis"`
	ThreatModel      map[string]any   `json:"threatModel"`
	Recommendations  []map[string]any `json:"recommendations"`
	Roadmap          map[string]any   `json:"roadmap"`
	KPIs             []any            `json:"kpis"`
	IncidentResponse map[string]any   `json:"incidentResponse"`
	Analysis         string           `json:"analysis"`
	Source           string           `json:"source"`
	AnalysisID       string           `json:"analysisId,omitempty"`
}

// Recommend runs a full advisory analysis for the profile.
func (s *Service) Recommend(ctx context.Context, profile Profile) (Result, error) {
	p := profile.Normalize()
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	completion, err := s.LLM.Complete(ctx, llm.CompleteInput{
		System: SystemPrompt(),
		User:   BuildPrompt(p),
	})
	if err != nil {
		return Result{}, &UpstreamError{Err: err}
	}

	parsed, err := ParseCompletion(completion)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			// The HTTP response carries only a generic message; the raw
			// model output prefix is for server-side diagnosis.
			telemetry.Error("ai.parse_failed", map[string]any{
				"reason":        parseErr.Reason,
				"finish_reason": completion.FinishReason,
				"snippet":       parseErr.Snippet,
			})
		}
		s.record(ctx, p, Analysis{Status: StatusFailed, ErrorMessage: err.Error()})
		return Result{}, err
	}

	result := s.buildResult(parsed)
	resultMap := resultToMap(result)
	analysisID := s.record(ctx, p, Analysis{Status: StatusCompleted, Result: resultMap})
	result.AnalysisID = analysisID
	return result, nil
}

// Get returns a stored analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	return s.Repo.GetByID(ctx, analysisID)
}

// List returns stored analyses, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	return s.Repo.List(ctx, limit, offset)
}

func (s *Service) buildResult(parsed *ParsedAnalysis) Result {
	env := parsed.Envelope
	analysisText, _ := env["analysis"].(string)
	analysisText = strings.TrimSpace(analysisText)
	if analysisText == "" {
		analysisText = "Security analysis completed"
	}
	return Result{
		Success: true,
		Diagnosis: mapOrDefault(env["diagnosis"], map[string]any{
			"riskLevel":       "medium",
			"summary":         "Analysis completed",
			"keyFindings":     []any{},
			"industryContext": "",
		}),
		ThreatModel: mapOrDefault(env["threatModel"], map[string]any{
			"topThreats":    []any{},
			"attackSurface": "",
		}),
		Recommendations: ScoreAll(parsed.Candidates),
		Roadmap: mapOrDefault(env["roadmap"], map[string]any{
			"days30": []any{},
			"days60": []any{},
			"days90": []any{},
		}),
		KPIs: ensureArray(env["kpis"]),
		IncidentResponse: mapOrDefault(env["incidentResponse"], map[string]any{
			"title":    "",
			"steps":    []any{},
			"contacts": "",
		}),
		Analysis: analysisText,
		Source:   s.source(),
	}
}

// record persists the run best-effort. Persistence failures never fail the
// request; the scored result has already been produced.
func (s *Service) record(ctx context.Context, p Profile, analysis Analysis) string {
	if s.Repo == nil {
		return ""
	}
	analysis.ID = uuid.NewString()
	analysis.Industry = p.Industry
	analysis.Language = p.Language
	analysis.Provider = s.source()
	analysis.Model = s.Model
	analysis.Profile = profileToMap(p)
	analysis.CreatedAt = time.Now().UTC()
	if err := s.Repo.Create(ctx, analysis); err != nil {
		telemetry.Error("analysis.persist_failed", map[string]any{
			"analysis_id": analysis.ID,
			"error":       err.Error(),
		})
		return ""
	}
	return analysis.ID
}

func (s *Service) source() string {
	if s.Provider == "" {
		return "groq"
	}
	return s.Provider
}

func mapOrDefault(v any, fallback map[string]any) map[string]any {
	if m, ok := v.(map[string]any); ok && m != nil {
		return m
	}
	return fallback
}

func profileToMap(p Profile) map[string]any {
	data, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func resultToMap(r Result) map[string]any {
	data, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
