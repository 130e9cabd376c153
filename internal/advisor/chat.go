package advisor

import (
	"context"
	"time"
)

// ChatMessage is one turn of a diagnosis conversation, stored so follow-up
// questions carry the full transcript back to the model.
type ChatMessage struct {
	ID         string    `json:"id"`
	AnalysisID string    `json:"analysisId"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	Provider   string    `json:"provider,omitempty"`
	Model      string    `json:"model,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ChatRepo defines persistence operations for diagnosis chat transcripts.
type ChatRepo interface {
	CreateMessage(ctx context.Context, msg ChatMessage) error
	ListMessages(ctx context.Context, analysisID string) ([]ChatMessage, error)
}
