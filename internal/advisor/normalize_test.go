package advisor

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"advisor-backend/internal/llm"
)

func TestParseCompletionExtractsObjectFromProse(t *testing.T) {
	text := "Here is your analysis:\n```json\n" +
		`{"recommendations":[{"name":"DMARC","category":"email_security"}]}` +
		"\n```\nLet me know if you need more."
	parsed, err := ParseCompletion(llm.Completion{Text: text, FinishReason: llm.FinishStop})
	if err != nil {
		t.Fatalf("ParseCompletion: %v", err)
	}
	if len(parsed.Candidates) != 1 || parsed.Candidates[0].Name != "DMARC" {
		t.Fatalf("unexpected candidates: %+v", parsed.Candidates)
	}
}

func TestParseCompletionNoJSONIsParseError(t *testing.T) {
	_, err := ParseCompletion(llm.Completion{Text: "I cannot help with that.", FinishReason: llm.FinishStop})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Snippet == "" {
		t.Fatalf("expected snippet to be captured")
	}
}

func TestParseCompletionInvalidJSONIsParseErrorWithoutRepair(t *testing.T) {
	// finish_reason=stop means no repair is attempted
	_, err := ParseCompletion(llm.Completion{Text: `{"recommendations":[`, FinishReason: llm.FinishStop})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestParseCompletionMissingRecommendationsIsShapeError(t *testing.T) {
	_, err := ParseCompletion(llm.Completion{Text: `{"diagnosis":{}}`, FinishReason: llm.FinishStop})
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected *ShapeError, got %v", err)
	}
}

func TestParseCompletionFiltersUnusableEntries(t *testing.T) {
	text := `{"recommendations":[
		{"name":"Keep","category":"email_security"},
		{"name":"","category":"identity_access"},
		{"category":"awareness_training"},
		{"name":"NoCategory"},
		"not an object",
		null
	]}`
	parsed, err := ParseCompletion(llm.Completion{Text: text, FinishReason: llm.FinishStop})
	if err != nil {
		t.Fatalf("ParseCompletion: %v", err)
	}
	if len(parsed.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(parsed.Candidates))
	}
	if parsed.Candidates[0].Name != "Keep" {
		t.Fatalf("kept %q, want Keep", parsed.Candidates[0].Name)
	}
}

func TestRepairTruncated(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "mid string value",
			input: `{"recommendations":[{"name":"A","category":"email_security","descri`,
			want:  `{"recommendations":[{"name":"A","category":"email_security"}]}`,
		},
		{
			name:  "after colon",
			input: `{"a":1,"b":`,
			want:  `{"a":1}`,
		},
		{
			name:  "trailing comma in array",
			input: `{"a":[1,2,`,
			want:  `{"a":[1,2]}`,
		},
		{
			name:  "braces inside strings ignored",
			input: `{"a":"}{","b":[`,
			want:  `{"a":"}{","b":[]}`,
		},
		{
			name:  "unterminated escaped quote",
			input: `{"a":"x\"y`,
			want:  `{}`,
		},
		{
			name:  "dangling key",
			input: `{"a":1,"dangling"`,
			want:  `{"a":1}`,
		},
		{
			name:  "already complete",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := repairTruncated(tc.input)
			if got != tc.want {
				t.Fatalf("repairTruncated(%q) = %q, want %q", tc.input, got, tc.want)
			}
			if !json.Valid([]byte(got)) {
				t.Fatalf("repair produced invalid JSON: %q", got)
			}
		})
	}
}

func TestRepairTruncatedPreservesCompleteLeaves(t *testing.T) {
	full := `{"diagnosis":{"riskLevel":"high","summary":"Exposed to BEC"},"recommendations":[{"name":"DMARC","category":"email_security","scores":{"threatMatch":0.9}},{"name":"MFA","category":"identity_access","scores":{"threatMatch":0.8}}],"analysis":"done"}`
	if !json.Valid([]byte(full)) {
		t.Fatalf("fixture is not valid JSON")
	}

	// Cut the document at every length and verify the repair always yields
	// valid JSON that keeps the earlier complete values.
	for cut := 1; cut < len(full); cut++ {
		repaired := repairTruncated(full[:cut])
		var doc map[string]any
		if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
			t.Fatalf("cut=%d: repair produced invalid JSON %q: %v", cut, repaired, err)
		}
		if cut > strings.Index(full, `"summary"`)+len(`"summary":"Exposed to BEC",`) {
			diagnosis, _ := doc["diagnosis"].(map[string]any)
			if diagnosis == nil || diagnosis["riskLevel"] != "high" {
				t.Fatalf("cut=%d: complete diagnosis leaf lost in %q", cut, repaired)
			}
		}
	}
}

func TestParseCompletionRepairsTruncatedOutput(t *testing.T) {
	text := `{"diagnosis":{"riskLevel":"high"},"recommendations":[{"name":"DMARC","category":"email_security","scores":{"threatMatch":1.0}},{"name":"MFA","category":"ide`
	parsed, err := ParseCompletion(llm.Completion{Text: text, FinishReason: llm.FinishLength})
	if err != nil {
		t.Fatalf("ParseCompletion: %v", err)
	}
	if len(parsed.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1 (truncated entry dropped)", len(parsed.Candidates))
	}
	if parsed.Candidates[0].Name != "DMARC" {
		t.Fatalf("kept %q, want DMARC", parsed.Candidates[0].Name)
	}
	if diagnosis, _ := parsed.Envelope["diagnosis"].(map[string]any); diagnosis["riskLevel"] != "high" {
		t.Fatalf("diagnosis lost: %+v", parsed.Envelope)
	}
}
