// File: database/repository/user/userMongoCrud.go
package userRepo

import (
	"context"
	"fmt"
	"time"

	"reminderx/database/repository"
	"reminderx/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) UpdateSetDocument(ctx context.Context, id string, updateDoc bson.M) error {
	updateDoc["updatedAt"] = time.Now()
	// Wrap in $set to comply with MongoDB update syntax
	update := bson.M{"$set": updateDoc}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.NotFound("user", id)
	}
	return nil
}

// ClearPushToken is conditional so a token registered after the failed send survives.
func (r *MongoUserRepo) ClearPushToken(ctx context.Context, id, token string) error {
	filter := bson.M{"id": id, "pushToken": token}
	update := bson.M{"$unset": bson.M{"pushToken": ""}, "$set": bson.M{"updatedAt": time.Now()}}

	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to clear push token for user %s: %w", id, err)
	}
	return nil
}
