package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/club"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/platform/metrics"
)

// CatalogProvider fetches the full player catalog from the upstream feed.
type CatalogProvider interface {
	FetchCatalog(ctx context.Context) (ExternalCatalog, error)
}

type ExternalCatalog struct {
	Clubs   []ExternalClub
	Players []ExternalPlayer
}

type ExternalClub struct {
	ExternalID int64
	Name       string
	Short      string
}

type ExternalPlayer struct {
	ExternalID     int64
	ClubExternalID int64
	Name           string
	Position       string
	Price          float64
	PriceDelta     *float64
	IsInjured      bool
	TotalPoints    float64
	RoundPoints    *float64
}

type SyncCatalogResult struct {
	ClubCount      int      `json:"club_count"`
	PlayerCount    int      `json:"player_count"`
	SkippedCount   int      `json:"skipped_count"`
	SkippedReasons []string `json:"skipped_reasons,omitempty"`
	DurationMs     int64    `json:"duration_ms"`
}

type CatalogService struct {
	playerRepo player.Repository
	clubRepo   club.Repository
	provider   CatalogProvider
	recorder   metrics.Recorder
	logger     *logging.Logger
	now        func() time.Time
}

func NewCatalogService(
	playerRepo player.Repository,
	clubRepo club.Repository,
	provider CatalogProvider,
	recorder metrics.Recorder,
	logger *logging.Logger,
) *CatalogService {
	if logger == nil {
		logger = logging.Default()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	return &CatalogService{
		playerRepo: playerRepo,
		clubRepo:   clubRepo,
		provider:   provider,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *CatalogService) ListPlayers(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListPlayers")
	defer span.End()

	if filter.Position != "" {
		if _, ok := player.AllPositions[filter.Position]; !ok {
			return nil, fmt.Errorf("%w: invalid position %q", ErrInvalidInput, filter.Position)
		}
	}

	items, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(items))
	for _, p := range items {
		if filter.Match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *CatalogService) ListClubs(ctx context.Context) ([]club.Club, error) {
	items, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	return items, nil
}

// Sync pulls the whole upstream catalog and upserts it. Rows that fail
// validation are skipped and reported rather than failing the batch.
func (s *CatalogService) Sync(ctx context.Context) (SyncCatalogResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Sync")
	defer span.End()

	if s.provider == nil {
		return SyncCatalogResult{}, fmt.Errorf("%w: catalog provider is not configured", ErrDependencyUnavailable)
	}

	startedAt := s.now()
	snapshot, err := s.provider.FetchCatalog(ctx)
	if err != nil {
		s.recorder.IncCatalogSync("failed")
		s.logger.WarnContext(ctx, "catalog fetch failed", "error", err)
		return SyncCatalogResult{}, fmt.Errorf("fetch catalog: %w", err)
	}

	clubs := make([]club.Club, 0, len(snapshot.Clubs))
	for _, item := range snapshot.Clubs {
		c := club.Club{ID: item.ExternalID, Name: strings.TrimSpace(item.Name), Short: strings.TrimSpace(item.Short)}
		if err := c.Validate(); err != nil {
			continue
		}
		clubs = append(clubs, c)
	}

	result := SyncCatalogResult{}
	players := make([]player.Player, 0, len(snapshot.Players))
	for _, item := range snapshot.Players {
		p, err := mapExternalPlayer(item)
		if err != nil {
			result.SkippedCount++
			result.SkippedReasons = append(result.SkippedReasons, fmt.Sprintf("player=%d: %v", item.ExternalID, err))
			continue
		}
		players = append(players, p)
	}

	if len(clubs) > 0 {
		if err := s.clubRepo.UpsertClubs(ctx, clubs); err != nil {
			s.recorder.IncCatalogSync("failed")
			return SyncCatalogResult{}, fmt.Errorf("upsert clubs: %w", err)
		}
	}
	if err := s.playerRepo.UpsertPlayers(ctx, players); err != nil {
		s.recorder.IncCatalogSync("failed")
		return SyncCatalogResult{}, fmt.Errorf("upsert players: %w", err)
	}

	result.ClubCount = len(clubs)
	result.PlayerCount = len(players)
	result.DurationMs = s.now().Sub(startedAt).Milliseconds()
	s.recorder.IncCatalogSync("success")

	s.logger.InfoContext(ctx, "catalog synced",
		"club_count", result.ClubCount,
		"player_count", result.PlayerCount,
		"skipped_count", result.SkippedCount,
		"duration_ms", result.DurationMs,
	)

	return result, nil
}

func mapExternalPlayer(item ExternalPlayer) (player.Player, error) {
	pos, err := player.ParsePosition(item.Position)
	if err != nil {
		return player.Player{}, err
	}

	p := player.Player{
		ID:          item.ExternalID,
		Name:        strings.TrimSpace(item.Name),
		Position:    pos,
		ClubID:      item.ClubExternalID,
		Price:       item.Price,
		PriceDelta:  item.PriceDelta,
		IsInjured:   item.IsInjured,
		TotalPoints: item.TotalPoints,
		RoundPoints: item.RoundPoints,
	}
	if err := p.Validate(); err != nil {
		return player.Player{}, err
	}
	return p, nil
}
