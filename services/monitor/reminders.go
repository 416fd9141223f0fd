package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reminderx/database/repository"
	"reminderx/models"
	"reminderx/services/notification"
	"reminderx/services/schedule"
	"reminderx/utils"

	"go.uber.org/zap"
)

// ReminderScanner is the persistence the scanner needs.
type ReminderScanner interface {
	ListScheduledAt(ctx context.Context, clock string) ([]models.Reminder, error)
	ClaimOccurrence(ctx context.Context, id, key string) (bool, error)
	ResetLedgers(ctx context.Context) (int64, error)
}

// ChainStarter starts the retry chain of a notified occurrence.
type ChainStarter interface {
	Start(ctx context.Context, occ schedule.Occurrence, detectedAt time.Time) error
}

// ReminderChecker detects due occurrences once per tick and sends the first push.
type ReminderChecker struct {
	reminders ReminderScanner
	notifier  notification.Notifier
	chains    ChainStarter
	logger    *zap.Logger
}

func NewReminderChecker(reminders ReminderScanner, notifier notification.Notifier, chains ChainStarter, logger *zap.Logger) *ReminderChecker {
	return &ReminderChecker{reminders: reminders, notifier: notifier, chains: chains, logger: logger}
}

// Check handles the occurrences due at now's minute and returns those it claimed.
// Each occurrence is claimed in the ledger before its push is dispatched; a
// claim lost to another scanner means the occurrence is already handled.
func (c *ReminderChecker) Check(ctx context.Context, now time.Time) ([]schedule.Occurrence, error) {
	now = now.Truncate(time.Minute)

	candidates, err := c.reminders.ListScheduledAt(ctx, now.Format(schedule.ClockLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders due at %s: %w", now.Format(schedule.ClockLayout), err)
	}

	due, errs := schedule.Resolve(now, candidates)
	for _, err := range errs {
		utils.IntegrityErrors.Inc()
		c.logger.Error("skipping reminder with inconsistent schedule", zap.Error(err))
	}

	var (
		claimed []schedule.Occurrence
		pushes  []models.PushMessage
	)
	for _, occ := range due {
		ok, err := c.reminders.ClaimOccurrence(ctx, occ.ReminderID, occ.Key)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.logger.Info("reminder deleted before claim", zap.String("reminderId", occ.ReminderID))
			continue
		case err != nil:
			c.logger.Error("failed to claim occurrence", zap.String("reminderId", occ.ReminderID), zap.String("slot", occ.Key), zap.Error(err))
			continue
		case !ok:
			continue
		}

		utils.OccurrencesDetected.Inc()
		claimed = append(claimed, occ)

		title, body := notification.DoseDue(occ.MedicineName)
		pushes = append(pushes, models.PushMessage{
			UserID: occ.UserID,
			Kind:   models.PushKindDose,
			Title:  title,
			Body:   body,
			Screen: models.ScreenEventSchedule,
			Data:   map[string]string{"reminderId": occ.ReminderID, "slot": occ.Key},
		})
	}
	if len(claimed) == 0 {
		return nil, nil
	}

	c.notifier.Dispatch(ctx, pushes)

	for _, occ := range claimed {
		c.logger.Info("dose notified",
			zap.String("reminderId", occ.ReminderID),
			zap.String("userId", occ.UserID),
			zap.String("slot", occ.Key))
		if err := c.chains.Start(ctx, occ, now); err != nil {
			c.logger.Error("failed to start retry chain", zap.String("reminderId", occ.ReminderID), zap.String("slot", occ.Key), zap.Error(err))
		}
	}
	return claimed, nil
}

// ResetDaily clears every reminder's dedup ledger. History is kept.
func (c *ReminderChecker) ResetDaily(ctx context.Context) error {
	n, err := c.reminders.ResetLedgers(ctx)
	if err != nil {
		return err
	}
	c.logger.Info("dedup ledgers reset", zap.Int64("reminders", n))
	return nil
}
