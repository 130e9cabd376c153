package advisor

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an analysis does not exist.
var ErrNotFound = errors.New("analysis not found")

// Repo defines persistence operations for advisory analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	List(ctx context.Context, limit, offset int) ([]Analysis, error)
}
