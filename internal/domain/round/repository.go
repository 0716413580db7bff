package round

import "context"

// Repository exposes round persistence operations.
type Repository interface {
	GetByID(ctx context.Context, roundID int64) (Round, bool, error)
	List(ctx context.Context) ([]Round, error)
	Upsert(ctx context.Context, item Round) error
}
