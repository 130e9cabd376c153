package advisor

import (
	"math"
	"sort"
)

// Criterion weights for ranking recommendations. The maximum achievable
// total, all criteria at 1.0, is 155.0.
var scoringWeights = map[string]float64{
	"threatMatch":            30,
	"gapSeverity":            25,
	"industryFit":            20,
	"budgetFit":              15,
	"teamFit":                12,
	"simplicity":             12,
	"timeToValue":            10,
	"regulatoryFit":          10,
	"attackSurfaceReduction": 10,
	"forceMultiplier":        11,
}

// MaxTotalScore is the ceiling of ComputeScore.
const MaxTotalScore = 155.0

// ComputeScore sums weight*score over all criteria, clamping each criterion
// score to [0,1] and treating missing or non-numeric values as 0. The result
// is rounded to one decimal place.
func ComputeScore(scores map[string]any) float64 {
	var total float64
	for criterion, weight := range scoringWeights {
		total += weight * clamp01(coerceScore(scores[criterion]))
	}
	return math.Round(total*10) / 10
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// coerceScore converts a decoded JSON value to a float64 criterion score.
// Anything that is not a number counts as 0.
func coerceScore(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// ScoreAll scores every candidate, guarantees the list-typed presentation
// fields are arrays, and sorts the result by totalScore descending. The sort
// is stable so equal-scored entries keep their model-provided order.
func ScoreAll(candidates []Candidate) []map[string]any {
	scored := make([]map[string]any, 0, len(candidates))
	for _, c := range candidates {
		entry := make(map[string]any, len(c.Fields)+1)
		for k, v := range c.Fields {
			entry[k] = v
		}
		entry["totalScore"] = ComputeScore(asScoreMap(c.Fields["scores"]))
		entry["steps"] = ensureArray(c.Fields["steps"])
		entry["pitfalls"] = ensureArray(c.Fields["pitfalls"])
		entry["toolCategories"] = ensureArray(c.Fields["toolCategories"])
		scored = append(scored, entry)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i]["totalScore"].(float64) > scored[j]["totalScore"].(float64)
	})
	return scored
}

func asScoreMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func ensureArray(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	return []any{}
}
