package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-roster/internal/domain/club"
)

type ClubRepository struct {
	mu    sync.RWMutex
	items map[int64]club.Club
}

func NewClubRepository(clubs []club.Club) *ClubRepository {
	items := make(map[int64]club.Club, len(clubs))
	for _, c := range clubs {
		items[c.ID] = c
	}
	return &ClubRepository{items: items}
}

func (r *ClubRepository) List(_ context.Context) ([]club.Club, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]club.Club, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ClubRepository) UpsertClubs(_ context.Context, items []club.Club) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range items {
		r.items[c.ID] = c
	}
	return nil
}
