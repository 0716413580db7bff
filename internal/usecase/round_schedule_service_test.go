package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-roster/internal/domain/round"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

type enqueuedJob struct {
	path    string
	delay   time.Duration
	dedupID string
}

type recordingJobQueue struct {
	jobs []enqueuedJob
	err  error
}

func (q *recordingJobQueue) Enqueue(_ context.Context, path string, _ any, delay time.Duration, dedupID string) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, enqueuedJob{path: path, delay: delay, dedupID: dedupID})
	return nil
}

func TestRoundScheduleService_ScheduleClosures(t *testing.T) {
	now := time.Date(2026, 8, 8, 10, 0, 0, 0, time.UTC)
	closedAt := now.Add(-time.Hour)
	rounds := memory.NewRoundRepository([]round.Round{
		{ID: 1, Number: 1, Status: round.StatusClosed, Deadline: now.Add(-24 * time.Hour), ClosedAt: &closedAt},
		{ID: 2, Number: 2, Status: round.StatusOpen, Deadline: now.Add(-time.Minute)},
		{ID: 3, Number: 3, Status: round.StatusOpen, Deadline: now.Add(2 * time.Hour)},
		{ID: 4, Number: 4, Status: round.StatusOpen},
	})
	queue := &recordingJobQueue{}
	service := NewRoundScheduleService(rounds, queue, logging.NewNop())
	service.now = func() time.Time { return now }

	result, err := service.ScheduleClosures(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, result.QueuedCount)
	assert.Equal(t, []int64{2, 3}, result.QueuedRounds)

	require.Len(t, queue.jobs, 2)
	assert.Equal(t, "/v1/internal/jobs/rounds/2/close", queue.jobs[0].path)
	assert.Equal(t, time.Duration(0), queue.jobs[0].delay)
	assert.Equal(t, 2*time.Hour, queue.jobs[1].delay)
	assert.NotEqual(t, queue.jobs[0].dedupID, queue.jobs[1].dedupID)
}

func TestRoundScheduleService_QueueFailure(t *testing.T) {
	queue := &recordingJobQueue{err: errors.New("qstash down")}
	service := NewRoundScheduleService(memory.NewRoundRepository(memory.SeedRounds()), queue, logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }

	_, err := service.ScheduleClosures(t.Context())
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
}
