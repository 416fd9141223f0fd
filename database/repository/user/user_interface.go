package userRepo

import (
	"context"

	"reminderx/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByFirebaseUID retrieves the user bound to a verified identity.
	GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	// GetByIDWithProjection retrieves a user by its unique ID with a projection.
	GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// UpdateSetDocument applies a $set of the given fields.
	UpdateSetDocument(ctx context.Context, id string, updateDoc bson.M) error
	// ClearPushToken removes the push token only if it still equals token.
	ClearPushToken(ctx context.Context, id, token string) error
}
