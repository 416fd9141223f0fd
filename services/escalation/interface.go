package escalation

import (
	"context"

	"reminderx/models"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
)

// Enqueuer is the subset of *asynq.Client the machine needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderStore reads fresh reminder state and records the escalation outcome.
type ReminderStore interface {
	GetByID(ctx context.Context, id string) (*models.Reminder, error)
	AppendHistoryIfAbsent(ctx context.Context, id string, entry models.HistoryEntry) (bool, error)
}

type UserStore interface {
	GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.User, error)
}

type ContactStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Contact, error)
}

type RecordStore interface {
	Create(ctx context.Context, record models.DoseRecord) (string, error)
}
