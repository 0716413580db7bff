package player

import "context"

// Filter narrows a catalog listing. Zero values match everything.
type Filter struct {
	Position Position
	ClubID   int64
}

func (f Filter) Match(p Player) bool {
	if f.Position != "" && p.Position != f.Position {
		return false
	}
	if f.ClubID > 0 && p.ClubID != f.ClubID {
		return false
	}
	return true
}

// Repository describes player catalog persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	GetByIDs(ctx context.Context, playerIDs []int64) ([]Player, error)
	UpsertPlayers(ctx context.Context, items []Player) error
}
