package notification

import (
	"context"

	"reminderx/models"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
)

// PushTransport is the subset of *messaging.Client the dispatcher needs.
type PushTransport interface {
	SendEach(ctx context.Context, messages []*messaging.Message) (*messaging.BatchResponse, error)
}

// TokenSource resolves and retires users' registered push tokens.
type TokenSource interface {
	GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.User, error)
	ClearPushToken(ctx context.Context, id, token string) error
}

// Notifier delivers pushes on a best-effort basis: failures are logged, never returned.
type Notifier interface {
	Dispatch(ctx context.Context, pushes []models.PushMessage)
}
