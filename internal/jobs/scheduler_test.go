package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"mitr-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReminders struct {
	sent int
	err  error
}

func (s *stubReminders) SendReminders(ctx context.Context) (int, error) {
	return s.sent, s.err
}

type stubCleaner struct {
	maxIdle time.Duration
}

func (s *stubCleaner) Cleanup(maxIdle time.Duration) { s.maxIdle = maxIdle }

func TestAddRejectsBadSpec(t *testing.T) {
	s := NewScheduler(logger.NewNopLogger())
	err := s.Add("broken", "not a schedule", func(context.Context) error { return nil })
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestScheduledJobRunsAndStops(t *testing.T) {
	s := NewScheduler(logger.NewNopLogger())
	var runs int32
	require.NoError(t, s.Add("tick", "@every 1s", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return errors.New("keeps going")
	}))

	s.Start()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 1 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()
}

func TestJournalReminderJob(t *testing.T) {
	log := logger.NewNopLogger()
	assert.NoError(t, JournalReminderJob(&stubReminders{sent: 2}, log)(context.Background()))
	assert.EqualError(t, JournalReminderJob(&stubReminders{err: errors.New("smtp down")}, log)(context.Background()), "smtp down")
}

func TestLimiterCleanupJob(t *testing.T) {
	c := &stubCleaner{}
	require.NoError(t, LimiterCleanupJob(c, time.Hour)(context.Background()))
	assert.Equal(t, time.Hour, c.maxIdle)
}
