package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-roster/internal/domain/lineup"
)

type LineupRepository struct {
	mu    sync.RWMutex
	items map[string]lineup.Lineup
}

func NewLineupRepository() *LineupRepository {
	return &LineupRepository{items: make(map[string]lineup.Lineup)}
}

func (r *LineupRepository) GetByTeamAndRound(_ context.Context, teamID string, roundID int64) (lineup.Lineup, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[lineupKey(teamID, roundID)]
	if !ok {
		return lineup.Lineup{}, false, nil
	}

	return item.Clone(), true, nil
}

func (r *LineupRepository) ListByRound(_ context.Context, roundID int64) ([]lineup.Lineup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lineup.Lineup, 0)
	for _, item := range r.items {
		if item.RoundID == roundID {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (r *LineupRepository) Upsert(_ context.Context, item lineup.Lineup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[lineupKey(item.TeamID, item.RoundID)] = item.Clone()
	return nil
}

func lineupKey(teamID string, roundID int64) string {
	return fmt.Sprintf("%s::%d", teamID, roundID)
}
