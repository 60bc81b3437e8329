package journal

import "context"

// Store persists activity history across runs.
type Store interface {
	Save(ctx context.Context, runID string, entries []Entry) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	ListRuns(ctx context.Context) ([]Run, error)
	Close() error
}
