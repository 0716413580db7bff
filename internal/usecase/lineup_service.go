package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/domain/round"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/platform/metrics"
)

// SaveLineupInput is the incoming payload for a round lineup.
type SaveLineupInput struct {
	TeamID        string
	RoundID       int64
	Slots         []lineup.Slot
	CaptainID     *int64
	ViceCaptainID *int64
}

type CloseRoundResult struct {
	RoundID       int64 `json:"round_id"`
	LineupCount   int   `json:"lineup_count"`
	AlreadyClosed bool  `json:"already_closed"`
}

type RoundPointsResult struct {
	TeamID  string
	RoundID int64
	Closed  bool
	Total   float64
	Slots   []fantasy.SlotPoints
}

type LineupService struct {
	playerRepo player.Repository
	squadRepo  fantasy.Repository
	lineupRepo lineup.Repository
	roundRepo  round.Repository
	rules      fantasy.Rules
	recorder   metrics.Recorder
	logger     *logging.Logger
	now        func() time.Time
}

func NewLineupService(
	playerRepo player.Repository,
	squadRepo fantasy.Repository,
	lineupRepo lineup.Repository,
	roundRepo round.Repository,
	rules fantasy.Rules,
	recorder metrics.Recorder,
	logger *logging.Logger,
) *LineupService {
	if logger == nil {
		logger = logging.Default()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	return &LineupService{
		playerRepo: playerRepo,
		squadRepo:  squadRepo,
		lineupRepo: lineupRepo,
		roundRepo:  roundRepo,
		rules:      rules,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *LineupService) Get(ctx context.Context, teamID string, roundID int64) (lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Get")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" || roundID <= 0 {
		return lineup.Lineup{}, fmt.Errorf("%w: team id and round id are required", ErrInvalidInput)
	}

	item, exists, err := s.lineupRepo.GetByTeamAndRound(ctx, teamID, roundID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("get lineup: %w", err)
	}
	if !exists {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup for team=%s round=%d", ErrNotFound, teamID, roundID)
	}

	return item, nil
}

// Save stores a lineup for an open round. Captaincy is checked before the
// slot rules so a bad armband is reported on its own.
func (s *LineupService) Save(ctx context.Context, input SaveLineupInput) (lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Save", attribute.Int64("round_id", input.RoundID))
	defer span.End()

	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.TeamID == "" || input.RoundID <= 0 {
		return lineup.Lineup{}, fmt.Errorf("%w: team id and round id are required", ErrInvalidInput)
	}

	rd, err := s.getRound(ctx, input.RoundID)
	if err != nil {
		return lineup.Lineup{}, err
	}
	if !rd.IsOpen() {
		return lineup.Lineup{}, newViolationError(fantasy.ViolationRoundClosed)
	}

	squad, exists, err := s.squadRepo.GetByTeam(ctx, input.TeamID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("get squad by team: %w", err)
	}
	if !exists {
		return lineup.Lineup{}, fmt.Errorf("%w: squad for team=%s", ErrNotFound, input.TeamID)
	}

	if violations := fantasy.ValidateCaptaincy(input.Slots, input.CaptainID, input.ViceCaptainID); len(violations) > 0 {
		return lineup.Lineup{}, newViolationError(violations...)
	}

	squadPlayers, _, err := resolvePlayers(ctx, s.playerRepo, squad.PlayerIDs)
	if err != nil {
		return lineup.Lineup{}, err
	}

	startedAt := s.now()
	violations := s.rules.ValidateLineup(input.Slots, squadPlayers)
	s.recorder.ObserveValidation("lineup", fantasy.Codes(violations), s.now().Sub(startedAt).Seconds())
	if len(violations) > 0 {
		return lineup.Lineup{}, newViolationError(violations...)
	}

	byID := player.IndexByID(squadPlayers)
	slots := lineup.CloneSlots(input.Slots)
	for i := range slots {
		slots[i].RoundPoints = nil
		slots[i].PointsWithBonus = nil
		if slots[i].PlayerID != nil {
			if p, ok := byID[*slots[i].PlayerID]; ok {
				slots[i].Role = p.Position
			}
		}
	}

	item := lineup.Lineup{
		TeamID:        input.TeamID,
		RoundID:       input.RoundID,
		Slots:         slots,
		CaptainID:     input.CaptainID,
		ViceCaptainID: input.ViceCaptainID,
		UpdatedAt:     s.now().UTC(),
	}
	if err := s.lineupRepo.Upsert(ctx, item); err != nil {
		return lineup.Lineup{}, fmt.Errorf("upsert lineup: %w", err)
	}

	s.logger.InfoContext(ctx, "lineup saved", "team_id", item.TeamID, "round_id", item.RoundID)
	return item, nil
}

// CloseRound freezes every lineup of the round. Roles are snapshotted from
// the live catalog, round points are copied in and captaincy is settled.
func (s *LineupService) CloseRound(ctx context.Context, roundID int64) (CloseRoundResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.CloseRound", attribute.Int64("round_id", roundID))
	defer span.End()

	if roundID <= 0 {
		return CloseRoundResult{}, fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}

	rd, err := s.getRound(ctx, roundID)
	if err != nil {
		return CloseRoundResult{}, err
	}
	if !rd.IsOpen() {
		return CloseRoundResult{RoundID: roundID, AlreadyClosed: true}, nil
	}

	items, err := s.lineupRepo.ListByRound(ctx, roundID)
	if err != nil {
		return CloseRoundResult{}, fmt.Errorf("list lineups by round: %w", err)
	}

	ids := make([]int64, 0, len(items)*lineup.SlotCount)
	for _, item := range items {
		ids = append(ids, lineup.PlayerIDs(item.Slots)...)
	}
	catalog, _, err := resolvePlayers(ctx, s.playerRepo, ids)
	if err != nil {
		return CloseRoundResult{}, err
	}
	byID := player.IndexByID(catalog)

	now := s.now().UTC()
	for _, item := range items {
		slots := withCatalogSnapshot(item.Slots, byID)
		item.Slots = fantasy.SettleCaptaincy(slots, item.CaptainID, item.ViceCaptainID)
		item.Closed = true
		item.UpdatedAt = now
		if err := s.lineupRepo.Upsert(ctx, item); err != nil {
			return CloseRoundResult{}, fmt.Errorf("upsert closed lineup team=%s: %w", item.TeamID, err)
		}
	}

	rd.Status = round.StatusClosed
	rd.ClosedAt = &now
	if err := s.roundRepo.Upsert(ctx, rd); err != nil {
		return CloseRoundResult{}, fmt.Errorf("upsert round: %w", err)
	}

	s.logger.InfoContext(ctx, "round closed", "round_id", roundID, "lineup_count", len(items))
	return CloseRoundResult{RoundID: roundID, LineupCount: len(items)}, nil
}

// RoundPoints scores a lineup. Open rounds use live catalog points; closed
// rounds use the settled snapshot.
func (s *LineupService) RoundPoints(ctx context.Context, teamID string, roundID int64) (RoundPointsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.RoundPoints",
		attribute.String("team_id", teamID),
		attribute.Int64("round_id", roundID),
	)
	defer span.End()

	item, err := s.Get(ctx, teamID, roundID)
	if err != nil {
		return RoundPointsResult{}, err
	}

	slots := item.Slots
	if !item.Closed {
		catalog, _, err := resolvePlayers(ctx, s.playerRepo, lineup.PlayerIDs(item.Slots))
		if err != nil {
			return RoundPointsResult{}, err
		}
		slots = withCatalogSnapshot(item.Slots, player.IndexByID(catalog))
	}

	rows := fantasy.ResolveSlotPoints(slots, item.CaptainID, item.ViceCaptainID)
	var total float64
	for _, row := range rows {
		total += row.Total
	}

	return RoundPointsResult{
		TeamID:  item.TeamID,
		RoundID: item.RoundID,
		Closed:  item.Closed,
		Total:   total,
		Slots:   rows,
	}, nil
}

func (s *LineupService) getRound(ctx context.Context, roundID int64) (round.Round, error) {
	rd, exists, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return round.Round{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return round.Round{}, fmt.Errorf("%w: round=%d", ErrNotFound, roundID)
	}
	return rd, nil
}

func withCatalogSnapshot(slots []lineup.Slot, byID map[int64]player.Player) []lineup.Slot {
	out := lineup.CloneSlots(slots)
	for i := range out {
		if out[i].PlayerID == nil {
			continue
		}
		p, ok := byID[*out[i].PlayerID]
		if !ok {
			out[i].RoundPoints = nil
			continue
		}
		out[i].Role = p.Position
		out[i].RoundPoints = nil
		if p.RoundPoints != nil {
			v := *p.RoundPoints
			out[i].RoundPoints = &v
		}
	}
	return out
}
