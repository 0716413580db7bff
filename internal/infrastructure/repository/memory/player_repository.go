package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	index map[int64]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	index := make(map[int64]player.Player, len(players))
	for _, p := range players {
		index[p.ID] = clonePlayer(p)
	}

	return &PlayerRepository{index: index}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.index))
	for _, p := range r.index {
		out = append(out, clonePlayer(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// GetByIDs returns known players in request order; unknown ids are skipped.
func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []int64) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := r.index[id]
		if !ok {
			continue
		}
		out = append(out, clonePlayer(p))
	}

	return out, nil
}

func (r *PlayerRepository) UpsertPlayers(_ context.Context, items []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range items {
		r.index[p.ID] = clonePlayer(p)
	}
	return nil
}

func clonePlayer(p player.Player) player.Player {
	copied := p
	if p.PriceDelta != nil {
		v := *p.PriceDelta
		copied.PriceDelta = &v
	}
	if p.RoundPoints != nil {
		v := *p.RoundPoints
		copied.RoundPoints = &v
	}
	return copied
}
