package export

import (
	"encoding/json"
	"strings"
)

// CanonicalRecommendation is the document generator's view of a
// recommendation. Normalization resolves each canonical field from an ordered
// list of source keys; Extra keeps every raw field so nothing the model
// produced is lost on re-serialization.
type CanonicalRecommendation struct {
	Name        string
	Category    string
	Description string
	Priority    string
	Pricing     string
	Factors     []string
	Setup       string
	Complexity  string
	Link        string
	Extra       map[string]any
}

// Source keys per canonical field, highest priority first.
var (
	descriptionSources = []string{"description", "why"}
	factorSources      = []string{"benefits", "matchingFactors", "factors"}
	setupSources       = []string{"setup", "setupTime"}
	linkSources        = []string{"link", "website", "officialLink"}
)

// Defaults for absent scalar fields.
const (
	defaultPriority   = "Medium"
	defaultSetup      = "Quick"
	defaultComplexity = "Moderate"
)

// NormalizeRecommendation maps a raw recommendation to its canonical form.
// Entries without a name are unusable and report ok=false.
func NormalizeRecommendation(raw map[string]any) (CanonicalRecommendation, bool) {
	if raw == nil {
		return CanonicalRecommendation{}, false
	}
	name := strings.TrimSpace(stringField(raw, "name"))
	if name == "" {
		return CanonicalRecommendation{}, false
	}

	extra := make(map[string]any, len(raw))
	for k, v := range raw {
		extra[k] = v
	}

	return CanonicalRecommendation{
		Name:        name,
		Category:    strings.TrimSpace(stringField(raw, "category")),
		Description: firstString(raw, descriptionSources, ""),
		Priority:    firstString(raw, []string{"priority"}, defaultPriority),
		Pricing:     firstString(raw, []string{"pricing", "estimatedCost"}, ""),
		Factors:     firstStringSlice(raw, factorSources),
		Setup:       firstString(raw, setupSources, defaultSetup),
		Complexity:  firstString(raw, []string{"complexity"}, defaultComplexity),
		Link:        firstString(raw, linkSources, ""),
		Extra:       extra,
	}, true
}

// NormalizeAll maps and filters a raw recommendation list.
func NormalizeAll(raw []map[string]any) []CanonicalRecommendation {
	out := make([]CanonicalRecommendation, 0, len(raw))
	for _, entry := range raw {
		rec, ok := NormalizeRecommendation(entry)
		if !ok {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// MarshalJSON re-emits every raw field and overlays the canonical ones, so
// consumers that only know the source keys still see them.
func (r CanonicalRecommendation) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+10)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["name"] = r.Name
	out["category"] = r.Category
	out["description"] = r.Description
	out["priority"] = r.Priority
	out["pricing"] = r.Pricing
	out["factors"] = r.Factors
	out["setup"] = r.Setup
	out["complexity"] = r.Complexity
	out["link"] = r.Link
	out["website"] = r.Link
	return json.Marshal(out)
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func firstString(raw map[string]any, keys []string, fallback string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return fallback
}

// firstStringSlice returns the first source key holding an array. The
// winning array is used even when a later source also matches.
func firstStringSlice(raw map[string]any, keys []string) []string {
	for _, key := range keys {
		arr, ok := raw[key].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return []string{}
}
