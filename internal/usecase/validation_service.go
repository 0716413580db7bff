package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/observability"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/platform/metrics"
)

const defaultValidationWorkers = 8

// SquadCandidate is one roster to check. A zero BudgetCap uses the rules cap.
type SquadCandidate struct {
	Key       string  `json:"key"`
	PlayerIDs []int64 `json:"player_ids"`
	BudgetCap float64 `json:"budget_cap,omitempty"`
}

type SquadCandidateResult struct {
	Key        string   `json:"key"`
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations"`
	BudgetUsed float64  `json:"budget_used"`
	BudgetLeft float64  `json:"budget_left"`
}

// ValidationService checks many candidate squads in parallel against a
// single catalog snapshot.
type ValidationService struct {
	playerRepo player.Repository
	rules      fantasy.Rules
	workers    int
	recorder   metrics.Recorder
	logger     *logging.Logger
	now        func() time.Time
}

func NewValidationService(
	playerRepo player.Repository,
	rules fantasy.Rules,
	workers int,
	recorder metrics.Recorder,
	logger *logging.Logger,
) *ValidationService {
	if logger == nil {
		logger = logging.Default()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if workers <= 0 {
		workers = defaultValidationWorkers
	}

	return &ValidationService{
		playerRepo: playerRepo,
		rules:      rules,
		workers:    workers,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// ValidateSquads returns one result per candidate in input order.
func (s *ValidationService) ValidateSquads(ctx context.Context, candidates []SquadCandidate) ([]SquadCandidateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ValidationService.ValidateSquads", attribute.Int("candidates", len(candidates)))
	defer span.End()

	if len(candidates) == 0 {
		return []SquadCandidateResult{}, nil
	}

	catalog, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	byID := player.IndexByID(catalog)

	workerCount := s.workers
	if workerCount > len(candidates) {
		workerCount = len(candidates)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]SquadCandidateResult, len(candidates))
	var workers sync.WaitGroup
	for i, candidate := range candidates {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			observability.ProfileOperation(ctx, observability.OperationValidateBatch, func(context.Context) {
				results[i] = s.evaluate(candidate, byID)
			})
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit candidate to worker pool: %w", err)
		}
	}
	workers.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "squad candidates validated", "count", len(candidates), "workers", workerCount)
	return results, nil
}

func (s *ValidationService) evaluate(candidate SquadCandidate, byID map[int64]player.Player) SquadCandidateResult {
	startedAt := s.now()

	budgetCap := candidate.BudgetCap
	if budgetCap <= 0 {
		budgetCap = s.rules.BudgetCap
	}

	players := make([]player.Player, 0, len(candidate.PlayerIDs))
	unknown := false
	for _, id := range candidate.PlayerIDs {
		p, ok := byID[id]
		if !ok {
			unknown = true
			continue
		}
		players = append(players, p)
	}

	violations := s.rules.ValidateSquad(players, budgetCap)
	if unknown {
		violations = append(violations, fantasy.ViolationSquadUnknownPlayers)
	}

	codes := fantasy.Codes(violations)
	s.recorder.ObserveValidation("squad_batch", codes, s.now().Sub(startedAt).Seconds())

	used := fantasy.BudgetUsed(players)
	return SquadCandidateResult{
		Key:        candidate.Key,
		Valid:      len(codes) == 0,
		Violations: codes,
		BudgetUsed: used,
		BudgetLeft: fantasy.BudgetLeft(budgetCap, used),
	}
}
