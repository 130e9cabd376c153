package advisor

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed prompts/system_v1.txt
var systemPrompt string

// Response schema the model is asked to fill. Kept as a single line so the
// prompt stays compact and token-cheap.
const responseSchema = `{"diagnosis":{"riskLevel":"critical|high|medium|low","summary":"1-2 sentences","keyFindings":["f1","f2","f3"],"industryContext":"1 sentence"},"recommendations":[{"name":"short name","category":"email_security|identity_access|awareness_training|process_ir","priority":"Critical|High|Medium","description":"1-2 sentences","why":"1 sentence","steps":["s1","s2","s3"],"pitfalls":["p1","p2"],"toolCategories":["t1","t2"],"estimatedEffort":"short","estimatedCost":"short","scores":{"threatMatch":0.0,"gapSeverity":0.0,"industryFit":0.0,"budgetFit":0.0,"teamFit":0.0,"simplicity":0.0,"timeToValue":0.0,"regulatoryFit":0.0,"attackSurfaceReduction":0.0,"forceMultiplier":0.0}}],"roadmap":{"days30":["a1","a2"],"days60":["a1","a2"],"days90":["a1","a2"]},"kpis":[{"metric":"name","baseline":"now","target30":"30d","target90":"90d"}],"incidentResponse":{"title":"short title","steps":[{"timeframe":"0-15 min","actions":["a1","a2"]},{"timeframe":"15-60 min","actions":["a1","a2"]}],"contacts":"1 sentence"},"analysis":"1-2 sentence summary"}`

// SystemPrompt returns the advisory system prompt shared by all requests.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPrompt renders the user message for a profile. Optional fields fall
// back to explicit placeholder values so the model never sees empty slots.
func BuildPrompt(p Profile) string {
	threatList := joinOrDefault(p.ThreatExposure, "phishing_emails")
	controlsList := joinOrDefault(p.CurrentControls, "none")

	var b strings.Builder
	b.WriteString("Analyze this business security profile and generate anti-phishing protection recommendations.\n\n")
	b.WriteString("BUSINESS SECURITY PROFILE:\n")
	fmt.Fprintf(&b, "- Business Name: %s\n", orDefault(p.BusinessName, "Not specified"))
	fmt.Fprintf(&b, "- Industry: %s\n", p.Industry)
	fmt.Fprintf(&b, "- Primary Threat Concerns: %s\n", threatList)
	fmt.Fprintf(&b, "- Current Security Controls: %s\n", controlsList)
	fmt.Fprintf(&b, "- Monthly Security Budget: %s\n", orDefault(p.SecurityBudget, "not specified"))
	fmt.Fprintf(&b, "- Team Size (people with email/system access): %s\n", orDefault(p.TeamSize, "not specified"))
	fmt.Fprintf(&b, "- Tech Maturity: %s\n", orDefault(p.TechMaturity, "basic"))
	fmt.Fprintf(&b, "- Additional Context: %s\n", p.Description)
	fmt.Fprintf(&b, "- Language: %s\n\n", p.Language)
	b.WriteString("TASK: Return ONLY valid JSON (no markdown, no commentary). Keep all text CONCISE - max 1-2 short sentences per field. All text in the specified language.\n\n")
	b.WriteString(responseSchema)
	b.WriteString("\n\nReturn exactly 4 recommendations, one per category. Scores are 0.0-1.0. Be CONCISE but SPECIFIC - name real products, vendors, and exact steps. No generic advice.")
	return b.String()
}

func joinOrDefault(values []string, fallback string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, ", ")
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
