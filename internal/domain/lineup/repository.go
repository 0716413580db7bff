package lineup

import "context"

// Repository exposes lineup persistence operations.
type Repository interface {
	GetByTeamAndRound(ctx context.Context, teamID string, roundID int64) (Lineup, bool, error)
	ListByRound(ctx context.Context, roundID int64) ([]Lineup, error)
	Upsert(ctx context.Context, item Lineup) error
}
