package fantasy

import "context"

// Repository describes squad persistence needs from use cases.
type Repository interface {
	GetByTeam(ctx context.Context, teamID string) (Squad, bool, error)
	Upsert(ctx context.Context, squad Squad) error
}

// TransferRepository stores the transfer history of a team.
type TransferRepository interface {
	// Apply writes the swapped squad and its transfer record together;
	// neither is stored when either write fails.
	Apply(ctx context.Context, squad Squad, item Transfer) error
	ListByTeam(ctx context.Context, teamID string) ([]Transfer, error)
}
