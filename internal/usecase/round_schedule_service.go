package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/round"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

// JobQueue delivers a delayed POST back to this service.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

type ScheduleRoundClosuresResult struct {
	QueuedCount  int     `json:"queued_count"`
	QueuedRounds []int64 `json:"queued_rounds"`
}

// RoundScheduleService queues a close-round callback at every open round's
// deadline.
type RoundScheduleService struct {
	roundRepo round.Repository
	queue     JobQueue
	logger    *logging.Logger
	now       func() time.Time
}

func NewRoundScheduleService(roundRepo round.Repository, queue JobQueue, logger *logging.Logger) *RoundScheduleService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RoundScheduleService{
		roundRepo: roundRepo,
		queue:     queue,
		logger:    logger,
		now:       time.Now,
	}
}

func RoundClosePath(roundID int64) string {
	return fmt.Sprintf("/v1/internal/jobs/rounds/%d/close", roundID)
}

// ScheduleClosures is safe to call repeatedly: the deduplication id pins one
// job per round deadline.
func (s *RoundScheduleService) ScheduleClosures(ctx context.Context) (ScheduleRoundClosuresResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundScheduleService.ScheduleClosures")
	defer span.End()

	rounds, err := s.roundRepo.List(ctx)
	if err != nil {
		return ScheduleRoundClosuresResult{}, fmt.Errorf("list rounds: %w", err)
	}

	now := s.now().UTC()
	result := ScheduleRoundClosuresResult{QueuedRounds: make([]int64, 0, len(rounds))}
	for _, rd := range rounds {
		if !rd.IsOpen() || rd.Deadline.IsZero() {
			continue
		}

		delay := rd.Deadline.Sub(now)
		if delay < 0 {
			delay = 0
		}
		dedupID := fmt.Sprintf("round-close-%d-%d", rd.ID, rd.Deadline.Unix())
		payload := map[string]int64{"round_id": rd.ID}
		if err := s.queue.Enqueue(ctx, RoundClosePath(rd.ID), payload, delay, dedupID); err != nil {
			return result, fmt.Errorf("%w: enqueue close for round=%d: %v", ErrDependencyUnavailable, rd.ID, err)
		}

		result.QueuedCount++
		result.QueuedRounds = append(result.QueuedRounds, rd.ID)
	}

	s.logger.InfoContext(ctx, "round closures scheduled", "queued_count", result.QueuedCount)
	return result, nil
}
