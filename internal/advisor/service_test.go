package advisor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"advisor-backend/internal/llm"
	"advisor-backend/internal/shared/telemetry"
)

type fakeLLM struct {
	completion llm.Completion
	err        error
	lastInput  llm.CompleteInput
}

func (f *fakeLLM) Complete(ctx context.Context, input llm.CompleteInput) (llm.Completion, error) {
	f.lastInput = input
	if f.err != nil {
		return llm.Completion{}, f.err
	}
	return f.completion, nil
}

const analysisFixture = `{
	"diagnosis":{"riskLevel":"high","summary":"BEC exposure","keyFindings":["no MFA"],"industryContext":"retail"},
	"recommendations":[
		{"name":"Awareness","category":"awareness_training","scores":{"threatMatch":0.5}},
		{"name":"DMARC","category":"email_security","scores":{"threatMatch":1.0,"gapSeverity":1.0}}
	],
	"roadmap":{"days30":["enable MFA"],"days60":[],"days90":[]},
	"kpis":[{"metric":"phish report rate"}],
	"incidentResponse":{"title":"First hour","steps":[],"contacts":"call the bank"},
	"analysis":"Start with email controls."
}`

func newTestService(client llm.Client) (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	return &Service{
		Repo:     repo,
		LLM:      client,
		Provider: "groq",
		Model:    "llama-3.3-70b-versatile",
	}, repo
}

func TestRecommendScoresSortsAndPersists(t *testing.T) {
	fake := &fakeLLM{completion: llm.Completion{Text: analysisFixture, FinishReason: llm.FinishStop}}
	svc, repo := newTestService(fake)

	profile := Profile{
		Industry:       "retail",
		ThreatExposure: []string{"whatsapp_scams", "bec"},
		Description:    "Orders come in over WhatsApp, invoices by email",
		Language:       "he",
	}
	result, err := svc.Recommend(context.Background(), profile)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if !result.Success {
		t.Fatal("expected success")
	}
	if result.Source != "groq" {
		t.Fatalf("source = %q, want groq", result.Source)
	}
	if len(result.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(result.Recommendations))
	}
	// DMARC scores 55.0 vs Awareness 15.0, so it must come first.
	if result.Recommendations[0]["name"] != "DMARC" {
		t.Fatalf("top recommendation = %v, want DMARC", result.Recommendations[0]["name"])
	}
	if result.Recommendations[0]["totalScore"] != 55.0 {
		t.Fatalf("top totalScore = %v, want 55.0", result.Recommendations[0]["totalScore"])
	}
	if result.Analysis != "Start with email controls." {
		t.Fatalf("analysis = %q", result.Analysis)
	}
	if result.Diagnosis["riskLevel"] != "high" {
		t.Fatalf("diagnosis = %+v", result.Diagnosis)
	}

	// prompt carried the profile
	if fake.lastInput.System == "" || fake.lastInput.User == "" {
		t.Fatal("expected both prompt parts to be sent")
	}

	// the run was recorded
	if result.AnalysisID == "" {
		t.Fatal("expected analysisId")
	}
	stored, err := repo.GetByID(context.Background(), result.AnalysisID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != StatusCompleted {
		t.Fatalf("stored status = %q, want completed", stored.Status)
	}
	if stored.Industry != "retail" || stored.Language != "he" {
		t.Fatalf("stored profile fields: %+v", stored)
	}
}

func TestRecommendAppliesEnvelopeDefaults(t *testing.T) {
	fake := &fakeLLM{completion: llm.Completion{
		Text:         `{"recommendations":[{"name":"A","category":"email_security"}]}`,
		FinishReason: llm.FinishStop,
	}}
	svc, _ := newTestService(fake)

	result, err := svc.Recommend(context.Background(), Profile{Industry: "retail", Description: "d"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Diagnosis["riskLevel"] != "medium" {
		t.Fatalf("default diagnosis = %+v", result.Diagnosis)
	}
	if _, ok := result.Roadmap["days30"]; !ok {
		t.Fatalf("default roadmap = %+v", result.Roadmap)
	}
	if result.KPIs == nil || len(result.KPIs) != 0 {
		t.Fatalf("default kpis = %+v", result.KPIs)
	}
	if result.Analysis != "Security analysis completed" {
		t.Fatalf("default analysis = %q", result.Analysis)
	}
}

func TestRecommendValidatesProfile(t *testing.T) {
	fake := &fakeLLM{completion: llm.Completion{Text: analysisFixture, FinishReason: llm.FinishStop}}
	svc, _ := newTestService(fake)

	_, err := svc.Recommend(context.Background(), Profile{Industry: "retail"})
	if err == nil {
		t.Fatal("expected validation error for missing description")
	}
	if fake.lastInput.User != "" {
		t.Fatal("LLM must not be called for an invalid profile")
	}
}

func TestRecommendWrapsProviderFailure(t *testing.T) {
	svc, _ := newTestService(&fakeLLM{err: errors.New("connection refused")})

	_, err := svc.Recommend(context.Background(), Profile{Industry: "x", Description: "y"})
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
}

func TestRecommendNotConfiguredIsDetectable(t *testing.T) {
	svc, _ := newTestService(llm.PlaceholderClient{})

	_, err := svc.Recommend(context.Background(), Profile{Industry: "x", Description: "y"})
	if !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured in chain, got %v", err)
	}
}

func TestRecommendRecordsParseFailure(t *testing.T) {
	fake := &fakeLLM{completion: llm.Completion{Text: "no json here", FinishReason: llm.FinishStop}}
	svc, repo := newTestService(fake)

	_, err := svc.Recommend(context.Background(), Profile{Industry: "x", Description: "y"})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}

	stored, listErr := repo.List(context.Background(), 10, 0)
	if listErr != nil {
		t.Fatalf("List: %v", listErr)
	}
	if len(stored) != 1 || stored[0].Status != StatusFailed {
		t.Fatalf("expected one failed record, got %+v", stored)
	}
	if stored[0].ErrorMessage == "" {
		t.Fatal("expected error message on failed record")
	}
}

func TestRecommendLogsRawOutputOnParseFailure(t *testing.T) {
	var logged bytes.Buffer
	prev := telemetry.SetOutput(&logged)
	defer telemetry.SetOutput(prev)

	raw := "the model rambled instead of emitting JSON: " + strings.Repeat("x", 600)
	fake := &fakeLLM{completion: llm.Completion{Text: raw, FinishReason: llm.FinishStop}}
	svc, _ := newTestService(fake)

	_, err := svc.Recommend(context.Background(), Profile{Industry: "x", Description: "y"})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}

	out := logged.String()
	if !strings.Contains(out, "ai.parse_failed") {
		t.Fatalf("expected ai.parse_failed entry, got %q", out)
	}
	if !strings.Contains(out, "the model rambled") {
		t.Fatalf("expected raw output prefix in log, got %q", out)
	}
	// only the bounded prefix of the raw text is logged
	if strings.Contains(out, raw) {
		t.Fatal("full raw output must not be logged")
	}
}
