package advisor

import (
	"strings"
	"testing"
)

func TestBuildPromptAppliesDefaults(t *testing.T) {
	p := Profile{
		Industry:    "retail",
		Description: "Small shop taking orders over WhatsApp",
	}.Normalize()
	prompt := BuildPrompt(p)

	wantLines := []string{
		"- Business Name: Not specified",
		"- Industry: retail",
		"- Primary Threat Concerns: phishing_emails",
		"- Current Security Controls: none",
		"- Monthly Security Budget: not specified",
		"- Team Size (people with email/system access): not specified",
		"- Tech Maturity: basic",
		"- Language: en",
	}
	for _, line := range wantLines {
		if !strings.Contains(prompt, line) {
			t.Fatalf("prompt missing %q\n%s", line, prompt)
		}
	}
}

func TestBuildPromptJoinsLists(t *testing.T) {
	p := Profile{
		BusinessName:    "Cafe Dizengoff",
		Industry:        "hospitality",
		ThreatExposure:  []string{"whatsapp_scams", " bec ", ""},
		CurrentControls: []string{"spam_filter"},
		Description:     "desc",
		Language:        "he",
	}.Normalize()
	prompt := BuildPrompt(p)

	if !strings.Contains(prompt, "- Primary Threat Concerns: whatsapp_scams, bec") {
		t.Fatalf("threat list not joined:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Current Security Controls: spam_filter") {
		t.Fatalf("controls list missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Language: he") {
		t.Fatalf("language missing:\n%s", prompt)
	}
}

func TestBuildPromptCarriesSchemaAndTask(t *testing.T) {
	prompt := BuildPrompt(Profile{Industry: "legal", Description: "d"}.Normalize())
	for _, fragment := range []string{
		"Return ONLY valid JSON",
		`"recommendations":[{"name":"short name"`,
		"Return exactly 4 recommendations, one per category.",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Fatalf("prompt missing %q", fragment)
		}
	}
}

func TestSystemPromptEmbedded(t *testing.T) {
	sys := SystemPrompt()
	if sys == "" {
		t.Fatal("system prompt is empty")
	}
	if !strings.Contains(sys, "email_security") || !strings.Contains(sys, "process_ir") {
		t.Fatalf("system prompt missing category rules")
	}
}

func TestProfileNormalizeDefaultsLanguage(t *testing.T) {
	p := Profile{Industry: " retail ", Description: " d ", Language: " EN "}.Normalize()
	if p.Language != "en" {
		t.Fatalf("language = %q, want en", p.Language)
	}
	if p.Industry != "retail" || p.Description != "d" {
		t.Fatalf("fields not trimmed: %+v", p)
	}
	if got := (Profile{Industry: "x", Description: "y"}.Normalize()).Language; got != "en" {
		t.Fatalf("default language = %q, want en", got)
	}
}
