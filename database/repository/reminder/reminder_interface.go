package reminderRepo

import (
	"context"

	"reminderx/models"
)

// ReminderRepository defines reminder persistence, including the per-reminder
// dedup ledger and history ledger.
type ReminderRepository interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	GetByID(ctx context.Context, id string) (*models.Reminder, error)
	ListByUser(ctx context.Context, userID string) ([]models.Reminder, error)
	// ListScheduledAt returns every reminder with a dose at the given time of day ("15:04").
	ListScheduledAt(ctx context.Context, clock string) ([]models.Reminder, error)
	// Delete removes a reminder owned by userID.
	Delete(ctx context.Context, id, userID string) error

	// ClaimOccurrence writes key into the dedup ledger if it is absent.
	// It reports false when the key was already present.
	ClaimOccurrence(ctx context.Context, id, key string) (bool, error)
	// ResetLedgers empties the dedup ledger of every reminder.
	ResetLedgers(ctx context.Context) (int64, error)

	// UpsertHistory records entry for entry.ForTime, replacing status and timestamp
	// of an existing entry for the same key, and mirrors the status into the ledger.
	UpsertHistory(ctx context.Context, id string, entry models.HistoryEntry) error
	// AppendHistoryIfAbsent appends entry only if no entry exists for entry.ForTime.
	AppendHistoryIfAbsent(ctx context.Context, id string, entry models.HistoryEntry) (bool, error)
}
