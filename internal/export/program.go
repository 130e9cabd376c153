package export

import (
	"fmt"
	"strings"
	"time"
)

// BusinessProfile carries the questionnaire answers echoed into the
// generated document.
type BusinessProfile struct {
	BusinessName   string `json:"businessName"`
	Industry       string `json:"industry"`
	MainChallenge  string `json:"mainChallenge"`
	TechMaturity   string `json:"techMaturity"`
	SecurityBudget string `json:"securityBudget"`
	Timeline       string `json:"timeline"`
	TeamSize       string `json:"teamSize"`
}

type roadmapPhase struct {
	name     string
	duration string
	tasks    []string
}

var roadmapPhases = []roadmapPhase{
	{
		name:     "Phase 1: Planning & Setup",
		duration: "Week 1-2",
		tasks: []string{
			"Define specific objectives for each protection",
			"Assign an owner to lead each rollout",
			"Create accounts and secure licenses",
			"Review vendor documentation and hardening guides",
		},
	},
	{
		name:     "Phase 2: Initial Implementation",
		duration: "Week 3-4",
		tasks: []string{
			"Enable core controls and baseline configurations",
			"Enroll all email and system accounts",
			"Set up user roles and permissions",
			"Run the first awareness session",
		},
	},
	{
		name:     "Phase 3: Integration & Optimization",
		duration: "Week 5-8",
		tasks: []string{
			"Tune filtering policies based on real traffic",
			"Launch the first phishing simulation",
			"Document the incident reporting path",
			"Gather feedback and adjust settings",
		},
	},
	{
		name:     "Phase 4: Full Rollout & Monitoring",
		duration: "Week 9+",
		tasks: []string{
			"Extend controls across the whole organization",
			"Review alerts and simulation results monthly",
			"Refresh training for new joiners",
			"Plan the next quarter's improvements",
		},
	},
}

var nextStepItems = []string{
	"Review this program with your team",
	"Designate a champion to lead the rollout",
	"Create accounts with the recommended vendors",
	"Schedule the first awareness session",
	"Identify quick wins to build momentum",
}

// BuildProgram renders the full protection program document.
func BuildProgram(profile BusinessProfile, recs []CanonicalRecommendation, language string) ([]byte, error) {
	b := NewDocBuilder(language == "he")

	writeCover(b, profile, language)
	b.PageBreak()

	writeExecutiveSummary(b, profile, recs, language)
	b.PageBreak()

	writeProfileSection(b, profile, language)
	b.PageBreak()

	writeRecommendations(b, recs, language)
	b.PageBreak()

	writeRoadmap(b, language)
	b.PageBreak()

	writeNextSteps(b, language)

	return b.Bytes()
}

// BuildSummary renders the short version: cover page plus recommendations.
func BuildSummary(profile BusinessProfile, recs []CanonicalRecommendation, language string) ([]byte, error) {
	b := NewDocBuilder(language == "he")
	writeCover(b, profile, language)
	b.PageBreak()
	writeRecommendations(b, recs, language)
	return b.Bytes()
}

func writeCover(b *DocBuilder, profile BusinessProfile, language string) {
	b.Title(T(language, "businessProgram"))
	name := profile.BusinessName
	if name == "" {
		name = "Your Business"
	}
	b.Heading(2, fmt.Sprintf("%s: %s", T(language, "preparedFor"), name))
	if profile.Industry != "" {
		b.Para(fmt.Sprintf("%s: %s", T(language, "businessType"), profile.Industry))
	}
	b.ItalicPara(fmt.Sprintf("%s: %s", T(language, "generatedOn"), time.Now().UTC().Format("January 2, 2006")))
}

func writeExecutiveSummary(b *DocBuilder, profile BusinessProfile, recs []CanonicalRecommendation, language string) {
	b.Heading(1, T(language, "executiveSummary"))
	names := make([]string, 0, len(recs))
	for _, rec := range recs {
		names = append(names, rec.Name)
	}
	b.Para(fmt.Sprintf("This program covers %d selected protections: %s.", len(recs), strings.Join(names, ", ")))
	b.Bullets([]string{
		"Controls are ordered by impact for your profile",
		"Each protection lists concrete setup steps and vendors",
		"A phased roadmap spreads the work over the first quarter",
	})
}

func writeProfileSection(b *DocBuilder, profile BusinessProfile, language string) {
	b.Heading(1, T(language, "profile"))
	rows := [][]string{{T(language, "profile"), ""}}
	appendRow := func(key, value string) {
		if value != "" {
			rows = append(rows, []string{T(language, key), value})
		}
	}
	appendRow("businessType", profile.Industry)
	appendRow("mainChallenge", profile.MainChallenge)
	appendRow("techLevel", profile.TechMaturity)
	appendRow("monthlyBudget", profile.SecurityBudget)
	appendRow("teamSize", profile.TeamSize)
	b.Table(rows)

	b.Heading(2, T(language, "keyFindings"))
	b.Bullets(profileFindings(profile))
}

// profileFindings derives short findings from the profile answers.
func profileFindings(profile BusinessProfile) []string {
	findings := []string{}

	challengeFindings := map[string]string{
		"phishing_emails":  "Email remains the primary attack path and needs layered filtering",
		"bec":              "Payment and vendor-change requests need out-of-band verification",
		"whatsapp_scams":   "Messaging-app fraud requires clear verification habits",
		"account_takeover": "Account access needs phishing-resistant MFA",
	}
	if f, ok := challengeFindings[profile.MainChallenge]; ok {
		findings = append(findings, f)
	} else {
		findings = append(findings, "Phishing and social engineering exposure needs structured controls")
	}

	budgetFindings := map[string]string{
		"free":   "Focus on high-value free controls with optional paid tiers",
		"low":    "Cost-effective controls with strong risk reduction per dollar",
		"medium": "Mid-range tools with managed filtering and simulations",
		"high":   "Enterprise-grade protection with advanced detection",
	}
	if f, ok := budgetFindings[profile.SecurityBudget]; ok {
		findings = append(findings, f)
	} else {
		findings = append(findings, "Balanced control selection across budget tiers")
	}

	teamFindings := map[string]string{
		"solo":   "Automation and low-maintenance controls are essential",
		"small":  "Controls should be manageable without a dedicated IT role",
		"medium": "Role-based access and centralized management pay off",
		"large":  "Enterprise rollout needs phased deployment and training",
	}
	if f, ok := teamFindings[profile.TeamSize]; ok {
		findings = append(findings, f)
	} else {
		findings = append(findings, "Rollout should match the team's capacity")
	}

	return findings
}

func writeRecommendations(b *DocBuilder, recs []CanonicalRecommendation, language string) {
	b.Heading(1, T(language, "recommendations"))
	for i, rec := range recs {
		b.Heading(2, fmt.Sprintf("%d. %s", i+1, rec.Name))
		b.BoldPara(fmt.Sprintf("%s: %s", T(language, "priority"), rec.Priority))
		if rec.Description != "" {
			b.Para(rec.Description)
		}
		if len(rec.Factors) > 0 {
			b.Heading(3, T(language, "keyBenefits"))
			b.Bullets(rec.Factors)
		}
		b.ItalicPara(fmt.Sprintf("%s: %s | %s: %s",
			T(language, "complexity"), rec.Complexity,
			T(language, "setupTime"), rec.Setup))
		if rec.Pricing != "" {
			b.ItalicPara(fmt.Sprintf("%s: %s", T(language, "pricing"), rec.Pricing))
		}
		if rec.Link != "" {
			b.ItalicPara(fmt.Sprintf("%s: %s", T(language, "website"), rec.Link))
		}
	}
}

func writeRoadmap(b *DocBuilder, language string) {
	b.Heading(1, T(language, "roadmap"))
	for _, phase := range roadmapPhases {
		b.Heading(3, phase.name)
		b.ItalicPara(fmt.Sprintf("%s: %s", T(language, "duration"), phase.duration))
		b.Bullets(phase.tasks)
	}
}

func writeNextSteps(b *DocBuilder, language string) {
	b.Heading(1, T(language, "actionPlan"))
	b.Heading(2, T(language, "nextSteps"))
	b.Bullets(nextStepItems)
}
