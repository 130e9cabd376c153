package llm

import (
	"context"
	"errors"
)

// Finish reasons reported by chat-completion providers.
const (
	FinishStop   = "stop"
	FinishLength = "length"
)

// Chat roles understood by completion providers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat transcript.
type Message struct {
	Role    string
	Content string
}

// CompleteInput carries the prompt for a completion request: either the
// System/User pair for single-shot analysis, or System plus a Messages
// transcript for multi-turn refinement. Messages, when non-empty, wins.
type CompleteInput struct {
	System   string
	User     string
	Messages []Message
}

// Completion is the raw provider output before any parsing.
type Completion struct {
	Text         string
	FinishReason string
}

// Client abstracts LLM providers for advisory analysis.
type Client interface {
	Complete(ctx context.Context, input CompleteInput) (Completion, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, input CompleteInput) (Completion, error) {
	_ = ctx
	_ = input
	return Completion{}, ErrNotConfigured
}
