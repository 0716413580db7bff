package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
)

type SquadRepository struct {
	mu    sync.RWMutex
	items map[string]fantasy.Squad
}

func NewSquadRepository() *SquadRepository {
	return &SquadRepository{items: make(map[string]fantasy.Squad)}
}

func (r *SquadRepository) GetByTeam(_ context.Context, teamID string) (fantasy.Squad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	squad, ok := r.items[teamID]
	if !ok {
		return fantasy.Squad{}, false, nil
	}

	return cloneSquad(squad), true, nil
}

func (r *SquadRepository) Upsert(_ context.Context, squad fantasy.Squad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[squad.TeamID] = cloneSquad(squad)
	return nil
}

func cloneSquad(s fantasy.Squad) fantasy.Squad {
	copied := s
	copied.PlayerIDs = append([]int64(nil), s.PlayerIDs...)
	return copied
}

// TransferRepository records transfers and applies the swapped roster to
// the squads it shares with.
type TransferRepository struct {
	mu     sync.RWMutex
	squads *SquadRepository
	items  map[string][]fantasy.Transfer
}

func NewTransferRepository(squads *SquadRepository) *TransferRepository {
	return &TransferRepository{
		squads: squads,
		items:  make(map[string][]fantasy.Transfer),
	}
}

func (r *TransferRepository) Apply(_ context.Context, squad fantasy.Squad, item fantasy.Transfer) error {
	if r.squads == nil {
		return errors.New("transfer repository has no squad store")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.squads.mu.Lock()
	defer r.squads.mu.Unlock()

	r.squads.items[squad.TeamID] = cloneSquad(squad)
	r.items[item.TeamID] = append(r.items[item.TeamID], item)
	return nil
}

func (r *TransferRepository) ListByTeam(_ context.Context, teamID string) ([]fantasy.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]fantasy.Transfer(nil), r.items[teamID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
