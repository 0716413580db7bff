package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-roster/internal/domain/round"
)

type RoundRepository struct {
	mu    sync.RWMutex
	items map[int64]round.Round
}

func NewRoundRepository(rounds []round.Round) *RoundRepository {
	items := make(map[int64]round.Round, len(rounds))
	for _, r := range rounds {
		items[r.ID] = cloneRound(r)
	}
	return &RoundRepository{items: items}
}

func (r *RoundRepository) GetByID(_ context.Context, roundID int64) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[roundID]
	if !ok {
		return round.Round{}, false, nil
	}
	return cloneRound(item), true, nil
}

func (r *RoundRepository) List(_ context.Context) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.Round, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneRound(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *RoundRepository) Upsert(_ context.Context, item round.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneRound(item)
	return nil
}

func cloneRound(item round.Round) round.Round {
	copied := item
	if item.ClosedAt != nil {
		v := *item.ClosedAt
		copied.ClosedAt = &v
	}
	return copied
}
