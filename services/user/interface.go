package user

import (
	"context"

	"reminderx/models"

	"go.mongodb.org/mongo-driver/bson"
)

type UserService interface {
	// Register creates the user record bound to a verified identity.
	Register(ctx context.Context, firebaseUID string, profile models.User) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error)
	// UpdatePushToken stores the device push token used for reminders.
	UpdatePushToken(ctx context.Context, userID, token string) error

	// Dispenser pairing
	PairDevice(ctx context.Context, userID, model string) (*models.Device, bool, error)
	GetDevice(ctx context.Context, userID string) (*models.Device, error)
}

// Repo is the user persistence the service needs.
type Repo interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateSetDocument(ctx context.Context, id string, updateDoc bson.M) error
}

type DeviceRepo interface {
	Upsert(ctx context.Context, userID, model string) (*models.Device, bool, error)
	GetByUser(ctx context.Context, userID string) (*models.Device, error)
}

// TokenCache forgets a user's cached push token.
type TokenCache interface {
	Invalidate(userID string)
}

// ProfileUpdate holds the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Age     *int    `json:"age"`
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo    Repo
	Devices DeviceRepo
	Tokens  TokenCache
}
