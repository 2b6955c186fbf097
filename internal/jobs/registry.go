package jobs

import (
	"context"
	"time"

	"mitr-be/internal/pkg/logger"
)

const (
	JournalReminders = "journal-reminders"
	RateLimitCleanup = "ratelimit-cleanup"
)

type ReminderSender interface {
	SendReminders(ctx context.Context) (int, error)
}

type LimiterCleaner interface {
	Cleanup(maxIdle time.Duration)
}

// JournalReminderJob emails opted-in users who have not written today.
func JournalReminderJob(reminders ReminderSender, log logger.ILogger) Func {
	return func(ctx context.Context) error {
		sent, err := reminders.SendReminders(ctx)
		if err != nil {
			return err
		}
		log.Info("Jobs", "Journal reminders sent", map[string]interface{}{"count": sent})
		return nil
	}
}

func LimiterCleanupJob(limiter LimiterCleaner, maxIdle time.Duration) Func {
	return func(ctx context.Context) error {
		limiter.Cleanup(maxIdle)
		return nil
	}
}
