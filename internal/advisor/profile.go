package advisor

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Profile describes the requester's business security situation as collected
// by the questionnaire. Industry and description are the only required fields;
// everything else defaults at prompt-build time.
type Profile struct {
	BusinessName    string   `json:"businessName"`
	Industry        string   `json:"industry" binding:"required"`
	ThreatExposure  []string `json:"threatExposure"`
	CurrentControls []string `json:"currentControls"`
	SecurityBudget  string   `json:"securityBudget"`
	TeamSize        string   `json:"teamSize"`
	TechMaturity    string   `json:"techMaturity"`
	Description     string   `json:"description" binding:"required"`
	Language        string   `json:"language" binding:"omitempty,oneof=en he ru"`
}

// validate mirrors the gin binding rules so profiles arriving outside HTTP
// binding get the same checks.
var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

// Validate reports whether the required questionnaire fields are present.
func (p Profile) Validate() error {
	return validate.Struct(p)
}

// Normalize trims fields and applies defaults for optional values.
func (p Profile) Normalize() Profile {
	p.BusinessName = strings.TrimSpace(p.BusinessName)
	p.Industry = strings.TrimSpace(p.Industry)
	p.SecurityBudget = strings.TrimSpace(p.SecurityBudget)
	p.TeamSize = strings.TrimSpace(p.TeamSize)
	p.TechMaturity = strings.TrimSpace(p.TechMaturity)
	p.Description = strings.TrimSpace(p.Description)
	p.Language = strings.ToLower(strings.TrimSpace(p.Language))
	if p.Language == "" {
		p.Language = "en"
	}
	return p
}
