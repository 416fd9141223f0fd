package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"reminderx/database/repository"
	"reminderx/models"
	"reminderx/services/notification"
	"reminderx/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var (
	ErrAlreadyRegistered = errors.New("user already registered")
	ErrInvalidProfile    = errors.New("invalid profile")
	ErrInvalidPushToken  = errors.New("invalid push token")
)

// Register validates the profile and creates the user for firebaseUID.
func (s *DefaultUserService) Register(ctx context.Context, firebaseUID string, profile models.User) (*models.User, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Email = strings.TrimSpace(profile.Email)
	if profile.Name == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidProfile)
	}
	if profile.Age < 0 {
		return nil, fmt.Errorf("%w: age cannot be negative", ErrInvalidProfile)
	}

	existing, err := s.Repo.GetByFirebaseUID(ctx, firebaseUID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	profile.ID = ""
	profile.FirebaseUID = firebaseUID
	profile.PushToken = ""
	if err := s.Repo.Create(ctx, &profile); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("user registered", zap.String("userId", profile.ID))
	return &profile, nil
}

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.Repo.GetByID(ctx, userID)
}

// UpdateProfile merges the provided fields and returns the updated user.
func (s *DefaultUserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	set := bson.M{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidProfile)
		}
		set["name"] = name
	}
	if update.Address != nil {
		set["address"] = strings.TrimSpace(*update.Address)
	}
	if update.Age != nil {
		if *update.Age < 0 {
			return nil, fmt.Errorf("%w: age cannot be negative", ErrInvalidProfile)
		}
		set["age"] = *update.Age
	}
	if len(set) > 0 {
		set["updatedAt"] = time.Now()
		if err := s.Repo.UpdateSetDocument(ctx, userID, set); err != nil {
			return nil, err
		}
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpdatePushToken stores token and drops any cached copy of the previous one.
func (s *DefaultUserService) UpdatePushToken(ctx context.Context, userID, token string) error {
	token = strings.TrimSpace(token)
	if !notification.ValidToken(token) {
		return ErrInvalidPushToken
	}
	if err := s.Repo.UpdateSetDocument(ctx, userID, bson.M{"pushToken": token, "updatedAt": time.Now()}); err != nil {
		return err
	}
	if s.Tokens != nil {
		s.Tokens.Invalidate(userID)
	}
	return nil
}

// PairDevice binds a dispenser model to the user. It reports whether the
// pairing is new.
func (s *DefaultUserService) PairDevice(ctx context.Context, userID, model string) (*models.Device, bool, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, false, fmt.Errorf("%w: model is required", ErrInvalidProfile)
	}
	return s.Devices.Upsert(ctx, userID, model)
}

func (s *DefaultUserService) GetDevice(ctx context.Context, userID string) (*models.Device, error) {
	return s.Devices.GetByUser(ctx, userID)
}
