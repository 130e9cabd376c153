package advisor

import (
	"context"
	"sync"
)

// MemoryChatRepo stores chat transcripts in memory, keyed by analysis.
type MemoryChatRepo struct {
	mu         sync.RWMutex
	byAnalysis map[string][]ChatMessage
}

// NewMemoryChatRepo constructs a MemoryChatRepo.
func NewMemoryChatRepo() *MemoryChatRepo {
	return &MemoryChatRepo{byAnalysis: make(map[string][]ChatMessage)}
}

// CreateMessage appends the message to its analysis transcript.
func (r *MemoryChatRepo) CreateMessage(ctx context.Context, msg ChatMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byAnalysis[msg.AnalysisID] = append(r.byAnalysis[msg.AnalysisID], msg)
	return nil
}

// ListMessages returns the transcript for an analysis in insertion order.
func (r *MemoryChatRepo) ListMessages(ctx context.Context, analysisID string) ([]ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.byAnalysis[analysisID]
	out := make([]ChatMessage, len(stored))
	copy(out, stored)
	return out, nil
}

var _ ChatRepo = (*MemoryChatRepo)(nil)
