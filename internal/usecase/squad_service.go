package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/domain/round"
	"github.com/riskibarqy/fantasy-roster/internal/observability"
	idgen "github.com/riskibarqy/fantasy-roster/internal/platform/id"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/platform/metrics"
)

// SaveSquadInput is the incoming payload for a full squad replacement.
type SaveSquadInput struct {
	TeamID    string
	Name      string
	PlayerIDs []int64
}

// TransferInput swaps one squad member for a catalog player.
type TransferInput struct {
	TeamID      string
	RoundID     int64
	OutPlayerID int64
	InPlayerID  int64
}

// SquadView is a stored squad resolved against the live catalog.
type SquadView struct {
	Squad      fantasy.Squad
	Players    []player.Player
	BudgetUsed float64
	BudgetLeft float64
	Violations []fantasy.Violation
}

type TransferPreviewResult struct {
	Preview         fantasy.TransferPreview
	DraftBudgetUsed float64
	DraftBudgetLeft float64
	Violations      []fantasy.Violation
}

type RandomSquadResult struct {
	Players    []player.Player
	BudgetUsed float64
	BudgetLeft float64
	Attempts   int
	Fallback   bool
}

type SquadService struct {
	playerRepo   player.Repository
	squadRepo    fantasy.Repository
	transferRepo fantasy.TransferRepository
	roundRepo    round.Repository
	rules        fantasy.Rules
	synthesizer  *fantasy.Synthesizer
	idGen        idgen.Generator
	recorder     metrics.Recorder
	logger       *logging.Logger
	now          func() time.Time
}

func NewSquadService(
	playerRepo player.Repository,
	squadRepo fantasy.Repository,
	transferRepo fantasy.TransferRepository,
	roundRepo round.Repository,
	rules fantasy.Rules,
	synthesizer *fantasy.Synthesizer,
	idGen idgen.Generator,
	recorder metrics.Recorder,
	logger *logging.Logger,
) *SquadService {
	if logger == nil {
		logger = logging.Default()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if synthesizer == nil {
		synthesizer = fantasy.NewSynthesizer(rules)
	}

	return &SquadService{
		playerRepo:   playerRepo,
		squadRepo:    squadRepo,
		transferRepo: transferRepo,
		roundRepo:    roundRepo,
		rules:        rules,
		synthesizer:  synthesizer,
		idGen:        idGen,
		recorder:     recorder,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *SquadService) GetSquad(ctx context.Context, teamID string) (SquadView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.GetSquad")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return SquadView{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	squad, exists, err := s.squadRepo.GetByTeam(ctx, teamID)
	if err != nil {
		return SquadView{}, fmt.Errorf("get squad by team: %w", err)
	}
	if !exists {
		return SquadView{}, fmt.Errorf("%w: squad for team=%s", ErrNotFound, teamID)
	}

	players, missing, err := resolvePlayers(ctx, s.playerRepo, squad.PlayerIDs)
	if err != nil {
		return SquadView{}, err
	}

	violations := s.rules.ValidateSquad(players, squad.BudgetCap)
	if len(missing) > 0 {
		violations = append(violations, fantasy.ViolationSquadUnknownPlayers)
	}

	used := fantasy.BudgetUsed(players)
	return SquadView{
		Squad:      squad,
		Players:    players,
		BudgetUsed: used,
		BudgetLeft: fantasy.BudgetLeft(squad.BudgetCap, used),
		Violations: violations,
	}, nil
}

// SaveSquad replaces the team's squad. Nothing is written unless the whole
// squad passes validation against current catalog prices.
func (s *SquadService) SaveSquad(ctx context.Context, input SaveSquadInput) (fantasy.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.SaveSquad")
	defer span.End()

	input.TeamID = strings.TrimSpace(input.TeamID)
	input.Name = strings.TrimSpace(input.Name)

	if input.TeamID == "" {
		return fantasy.Squad{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if len(input.PlayerIDs) == 0 {
		return fantasy.Squad{}, fmt.Errorf("%w: player ids are required", ErrInvalidInput)
	}
	if input.Name == "" {
		input.Name = input.TeamID
	}

	players, missing, err := resolvePlayers(ctx, s.playerRepo, input.PlayerIDs)
	if err != nil {
		return fantasy.Squad{}, err
	}
	violations := s.validateSquad(players, s.rules.BudgetCap)
	if len(missing) > 0 {
		s.logger.WarnContext(ctx, "squad references unknown players", "team_id", input.TeamID, "missing", missing)
		violations = append(violations, fantasy.ViolationSquadUnknownPlayers)
	}
	if len(violations) > 0 {
		return fantasy.Squad{}, newViolationError(violations...)
	}

	now := s.now().UTC()
	existing, exists, err := s.squadRepo.GetByTeam(ctx, input.TeamID)
	if err != nil {
		return fantasy.Squad{}, fmt.Errorf("get existing squad: %w", err)
	}

	squadID := existing.ID
	createdAt := existing.CreatedAt
	if !exists {
		squadID, err = s.idGen.NewID()
		if err != nil {
			return fantasy.Squad{}, fmt.Errorf("generate squad id: %w", err)
		}
		createdAt = now
	}

	squad := fantasy.Squad{
		ID:        squadID,
		TeamID:    input.TeamID,
		Name:      input.Name,
		PlayerIDs: append([]int64(nil), input.PlayerIDs...),
		BudgetCap: s.rules.BudgetCap,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
	if err := squad.ValidateBasic(); err != nil {
		return fantasy.Squad{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.squadRepo.Upsert(ctx, squad); err != nil {
		return fantasy.Squad{}, fmt.Errorf("upsert squad: %w", err)
	}

	s.logger.InfoContext(ctx, "squad saved",
		"team_id", squad.TeamID,
		"squad_id", squad.ID,
		"budget_used", fantasy.BudgetUsed(players),
	)

	return squad, nil
}

// PreviewTransfers diffs a draft against the saved squad. It never writes.
func (s *SquadService) PreviewTransfers(ctx context.Context, teamID string, draftIDs []int64) (TransferPreviewResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.PreviewTransfers")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return TransferPreviewResult{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	var savedIDs []int64
	budgetCap := s.rules.BudgetCap
	squad, exists, err := s.squadRepo.GetByTeam(ctx, teamID)
	if err != nil {
		return TransferPreviewResult{}, fmt.Errorf("get squad by team: %w", err)
	}
	if exists {
		savedIDs = squad.PlayerIDs
		budgetCap = squad.BudgetCap
	}

	saved, _, err := resolvePlayers(ctx, s.playerRepo, savedIDs)
	if err != nil {
		return TransferPreviewResult{}, err
	}
	draft, missing, err := resolvePlayers(ctx, s.playerRepo, draftIDs)
	if err != nil {
		return TransferPreviewResult{}, err
	}

	violations := s.validateSquad(draft, budgetCap)
	if len(missing) > 0 {
		violations = append(violations, fantasy.ViolationSquadUnknownPlayers)
	}

	used := fantasy.BudgetUsed(draft)
	return TransferPreviewResult{
		Preview:         fantasy.PreviewTransfers(saved, draft),
		DraftBudgetUsed: used,
		DraftBudgetLeft: fantasy.BudgetLeft(budgetCap, used),
		Violations:      violations,
	}, nil
}

// Transfer swaps one player in an open round, keeping the outgoing player's
// place in squad order.
func (s *SquadService) Transfer(ctx context.Context, input TransferInput) (fantasy.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.Transfer", attribute.Int64("round_id", input.RoundID))
	defer span.End()

	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.TeamID == "" {
		return fantasy.Squad{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if input.RoundID <= 0 || input.OutPlayerID <= 0 || input.InPlayerID <= 0 {
		return fantasy.Squad{}, fmt.Errorf("%w: round id and player ids are required", ErrInvalidInput)
	}

	rd, exists, err := s.roundRepo.GetByID(ctx, input.RoundID)
	if err != nil {
		return fantasy.Squad{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return fantasy.Squad{}, fmt.Errorf("%w: round=%d", ErrNotFound, input.RoundID)
	}
	if !rd.IsOpen() {
		return fantasy.Squad{}, newViolationError(fantasy.ViolationRoundClosed)
	}

	squad, exists, err := s.squadRepo.GetByTeam(ctx, input.TeamID)
	if err != nil {
		return fantasy.Squad{}, fmt.Errorf("get squad by team: %w", err)
	}
	if !exists {
		return fantasy.Squad{}, fmt.Errorf("%w: squad for team=%s", ErrNotFound, input.TeamID)
	}

	var codes []fantasy.Violation
	if input.OutPlayerID == input.InPlayerID {
		codes = append(codes, fantasy.ViolationTransferSamePlayer)
	}
	if !squad.Has(input.OutPlayerID) {
		codes = append(codes, fantasy.ViolationOutPlayerNotInSquad)
	}
	if input.OutPlayerID != input.InPlayerID && squad.Has(input.InPlayerID) {
		codes = append(codes, fantasy.ViolationInPlayerAlreadyInSquad)
	}
	if len(codes) > 0 {
		return fantasy.Squad{}, newViolationError(codes...)
	}

	nextIDs := make([]int64, len(squad.PlayerIDs))
	for i, id := range squad.PlayerIDs {
		if id == input.OutPlayerID {
			id = input.InPlayerID
		}
		nextIDs[i] = id
	}

	players, missing, err := resolvePlayers(ctx, s.playerRepo, nextIDs)
	if err != nil {
		return fantasy.Squad{}, err
	}
	violations := s.validateSquad(players, squad.BudgetCap)
	if len(missing) > 0 {
		violations = append(violations, fantasy.ViolationSquadUnknownPlayers)
	}
	if len(violations) > 0 {
		return fantasy.Squad{}, newViolationError(violations...)
	}

	transferID, err := s.idGen.NewID()
	if err != nil {
		return fantasy.Squad{}, fmt.Errorf("generate transfer id: %w", err)
	}

	now := s.now().UTC()
	squad.PlayerIDs = nextIDs
	squad.UpdatedAt = now

	record := fantasy.Transfer{
		ID:          transferID,
		TeamID:      input.TeamID,
		RoundID:     input.RoundID,
		OutPlayerID: input.OutPlayerID,
		InPlayerID:  input.InPlayerID,
		CreatedAt:   now,
	}
	if err := s.transferRepo.Apply(ctx, squad, record); err != nil {
		return fantasy.Squad{}, fmt.Errorf("apply transfer: %w", err)
	}

	s.logger.InfoContext(ctx, "transfer completed",
		"team_id", input.TeamID,
		"round_id", input.RoundID,
		"out_player_id", input.OutPlayerID,
		"in_player_id", input.InPlayerID,
	)

	return squad, nil
}

func (s *SquadService) ListTransfers(ctx context.Context, teamID string) ([]fantasy.Transfer, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	items, err := s.transferRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return items, nil
}

// RandomSquad draws a legal squad from the whole catalog. The result is a
// suggestion and is not persisted.
func (s *SquadService) RandomSquad(ctx context.Context) (RandomSquadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.RandomSquad")
	defer span.End()

	catalog, err := s.playerRepo.List(ctx)
	if err != nil {
		return RandomSquadResult{}, fmt.Errorf("list players: %w", err)
	}

	var synthesis fantasy.Synthesis
	observability.ProfileOperation(ctx, observability.OperationSynthesizeSquad, func(context.Context) {
		synthesis, err = s.synthesizer.Synthesize(catalog, s.rules.BudgetCap)
	})
	if err != nil {
		var shortage *fantasy.PositionShortageError
		switch {
		case errors.As(err, &shortage):
			s.recorder.ObserveSynthesis("shortage", 0)
			s.logger.WarnContext(ctx, "random squad catalog shortage",
				"position", shortage.Position,
				"required", shortage.Required,
				"available", shortage.Available,
			)
			violationErr := newViolationError(shortage.Violation())
			violationErr.Cause = err
			return RandomSquadResult{}, violationErr
		case errors.Is(err, fantasy.ErrNoValidSquad):
			s.recorder.ObserveSynthesis("exhausted", synthesis.Attempts)
			s.logger.WarnContext(ctx, "random squad exhausted", "catalog_size", len(catalog))
			return RandomSquadResult{}, newViolationError(fantasy.ViolationNoValidSquadGenerated)
		default:
			return RandomSquadResult{}, fmt.Errorf("synthesize squad: %w", err)
		}
	}

	outcome := "random"
	if synthesis.Fallback {
		outcome = "fallback"
	}
	s.recorder.ObserveSynthesis(outcome, synthesis.Attempts)

	used := fantasy.BudgetUsed(synthesis.Players)
	return RandomSquadResult{
		Players:    synthesis.Players,
		BudgetUsed: used,
		BudgetLeft: fantasy.BudgetLeft(s.rules.BudgetCap, used),
		Attempts:   synthesis.Attempts,
		Fallback:   synthesis.Fallback,
	}, nil
}

func (s *SquadService) validateSquad(players []player.Player, budgetCap float64) []fantasy.Violation {
	startedAt := s.now()
	violations := s.rules.ValidateSquad(players, budgetCap)
	s.recorder.ObserveValidation("squad", fantasy.Codes(violations), s.now().Sub(startedAt).Seconds())
	return violations
}

// resolvePlayers looks up ids against the catalog, keeping request order and
// duplicates. Unknown ids are returned separately.
func resolvePlayers(ctx context.Context, repo player.Repository, ids []int64) ([]player.Player, []int64, error) {
	if len(ids) == 0 {
		return []player.Player{}, nil, nil
	}

	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	found, err := repo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, nil, fmt.Errorf("get players by ids: %w", err)
	}
	byID := player.IndexByID(found)

	players := make([]player.Player, 0, len(ids))
	var missing []int64
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		players = append(players, p)
	}

	return players, missing, nil
}
