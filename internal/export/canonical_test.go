package export

import (
	"encoding/json"
	"testing"
)

func TestNormalizeRecommendationFieldPrecedence(t *testing.T) {
	rec, ok := NormalizeRecommendation(map[string]any{
		"name":     "DMARC",
		"benefits": []any{"a"},
		"factors":  []any{"b"},
		"website":  "https://example.com",
		"link":     "https://first.example.com",
		"why":      "reasoning",
	})
	if !ok {
		t.Fatal("expected ok")
	}
	// benefits outranks factors
	if len(rec.Factors) != 1 || rec.Factors[0] != "a" {
		t.Fatalf("factors = %v, want [a]", rec.Factors)
	}
	// link outranks website
	if rec.Link != "https://first.example.com" {
		t.Fatalf("link = %q", rec.Link)
	}
	// why fills in for missing description
	if rec.Description != "reasoning" {
		t.Fatalf("description = %q", rec.Description)
	}
}

func TestNormalizeRecommendationDefaults(t *testing.T) {
	rec, ok := NormalizeRecommendation(map[string]any{"name": "MFA"})
	if !ok {
		t.Fatal("expected ok")
	}
	if rec.Priority != "Medium" {
		t.Fatalf("priority = %q, want Medium", rec.Priority)
	}
	if rec.Setup != "Quick" {
		t.Fatalf("setup = %q, want Quick", rec.Setup)
	}
	if rec.Complexity != "Moderate" {
		t.Fatalf("complexity = %q, want Moderate", rec.Complexity)
	}
	if rec.Factors == nil || len(rec.Factors) != 0 {
		t.Fatalf("factors = %v, want empty non-nil", rec.Factors)
	}
}

func TestNormalizeRecommendationRejectsUnnamed(t *testing.T) {
	if _, ok := NormalizeRecommendation(nil); ok {
		t.Fatal("nil input should not normalize")
	}
	if _, ok := NormalizeRecommendation(map[string]any{}); ok {
		t.Fatal("empty input should not normalize")
	}
	if _, ok := NormalizeRecommendation(map[string]any{"name": "  "}); ok {
		t.Fatal("blank name should not normalize")
	}
}

func TestNormalizeRecommendationWinningArrayIsUsedEvenWhenEmpty(t *testing.T) {
	rec, ok := NormalizeRecommendation(map[string]any{
		"name":     "X",
		"benefits": []any{},
		"factors":  []any{"fallback"},
	})
	if !ok {
		t.Fatal("expected ok")
	}
	if len(rec.Factors) != 0 {
		t.Fatalf("factors = %v, want empty (benefits won)", rec.Factors)
	}
}

func TestNormalizeAllFilters(t *testing.T) {
	recs := NormalizeAll([]map[string]any{
		{"name": "Keep"},
		{},
		nil,
		{"name": "Also"},
	})
	if len(recs) != 2 {
		t.Fatalf("got %d recs, want 2", len(recs))
	}
}

func TestCanonicalMarshalPreservesRawFields(t *testing.T) {
	rec, _ := NormalizeRecommendation(map[string]any{
		"name":       "DMARC",
		"benefits":   []any{"a"},
		"totalScore": 55.0,
	})
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["totalScore"] != 55.0 {
		t.Fatalf("totalScore lost: %v", out["totalScore"])
	}
	if _, ok := out["benefits"]; !ok {
		t.Fatal("raw benefits field lost")
	}
	if out["website"] != "" || out["link"] != "" {
		t.Fatalf("link fields = %v / %v", out["link"], out["website"])
	}
	factors, _ := out["factors"].([]any)
	if len(factors) != 1 || factors[0] != "a" {
		t.Fatalf("factors = %v", out["factors"])
	}
}

func TestTranslationFallback(t *testing.T) {
	if got := T("he", "priority"); got != "עדיפות" {
		t.Fatalf("he priority = %q", got)
	}
	if got := T("fr", "priority"); got != "Priority" {
		t.Fatalf("unknown language should fall back to English, got %q", got)
	}
	if got := T("en", "no_such_key"); got != "no_such_key" {
		t.Fatalf("unknown key should return the key, got %q", got)
	}
}
