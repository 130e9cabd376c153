package advisor

import "time"

// Analysis statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Analysis is a stored advisory run: the submitted profile plus the scored
// result envelope.
type Analysis struct {
	ID           string         `json:"id"`
	Industry     string         `json:"industry"`
	Language     string         `json:"language"`
	Provider     string         `json:"provider"`
	Model        string         `json:"model"`
	Status       string         `json:"status"`
	Profile      map[string]any `json:"profile,omitempty"`
	Result       map[string]any `json:"result,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}
