package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/fantasy-roster/internal/domain/club"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/domain/round"
	basecache "github.com/riskibarqy/fantasy-roster/internal/platform/cache"
)

const (
	playerPrefix = "player:"
	clubPrefix   = "club:"
	roundPrefix  = "round:"
)

// PlayerRepository serves catalog reads from one cached snapshot of the
// whole catalog. Writes go through and drop the snapshot.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	items, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return clonePlayers(items), nil
}

// GetByIDs keeps request order and skips unknown ids.
func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []int64) ([]player.Player, error) {
	items, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	byID := player.IndexByID(items)
	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return clonePlayers(out), nil
}

func (r *PlayerRepository) UpsertPlayers(ctx context.Context, items []player.Player) error {
	if err := r.next.UpsertPlayers(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, playerPrefix)
	return nil
}

func (r *PlayerRepository) snapshot(ctx context.Context) ([]player.Player, error) {
	return basecache.Load(ctx, r.cache, playerPrefix+"list", func(ctx context.Context) ([]player.Player, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return clonePlayers(items), nil
	})
}

type ClubRepository struct {
	next  club.Repository
	cache *basecache.Store
}

func NewClubRepository(next club.Repository, cache *basecache.Store) *ClubRepository {
	return &ClubRepository{next: next, cache: cache}
}

func (r *ClubRepository) List(ctx context.Context) ([]club.Club, error) {
	items, err := basecache.Load(ctx, r.cache, clubPrefix+"list", func(ctx context.Context) ([]club.Club, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]club.Club(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]club.Club(nil), items...), nil
}

func (r *ClubRepository) UpsertClubs(ctx context.Context, items []club.Club) error {
	if err := r.next.UpsertClubs(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, clubPrefix)
	return nil
}

type RoundRepository struct {
	next  round.Repository
	cache *basecache.Store
}

func NewRoundRepository(next round.Repository, cache *basecache.Store) *RoundRepository {
	return &RoundRepository{next: next, cache: cache}
}

type cachedRoundByID struct {
	value  round.Round
	exists bool
}

func (r *RoundRepository) GetByID(ctx context.Context, roundID int64) (round.Round, bool, error) {
	key := roundPrefix + "id:" + strconv.FormatInt(roundID, 10)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedRoundByID, error) {
		item, exists, err := r.next.GetByID(ctx, roundID)
		if err != nil {
			return cachedRoundByID{}, err
		}
		return cachedRoundByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return round.Round{}, false, err
	}
	return cloneRound(cached.value), cached.exists, nil
}

func (r *RoundRepository) List(ctx context.Context) ([]round.Round, error) {
	items, err := basecache.Load(ctx, r.cache, roundPrefix+"list", func(ctx context.Context) ([]round.Round, error) {
		return r.next.List(ctx)
	})
	if err != nil {
		return nil, err
	}

	out := make([]round.Round, 0, len(items))
	for _, item := range items {
		out = append(out, cloneRound(item))
	}
	return out, nil
}

// Upsert invalidates every round key; closing a round must be visible at once.
func (r *RoundRepository) Upsert(ctx context.Context, item round.Round) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, roundPrefix)
	return nil
}

func clonePlayers(items []player.Player) []player.Player {
	if items == nil {
		return nil
	}
	out := make([]player.Player, len(items))
	for i, p := range items {
		out[i] = p
		if p.PriceDelta != nil {
			v := *p.PriceDelta
			out[i].PriceDelta = &v
		}
		if p.RoundPoints != nil {
			v := *p.RoundPoints
			out[i].RoundPoints = &v
		}
	}
	return out
}

func cloneRound(item round.Round) round.Round {
	if item.ClosedAt != nil {
		v := *item.ClosedAt
		item.ClosedAt = &v
	}
	return item
}
