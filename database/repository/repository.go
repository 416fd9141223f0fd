package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reminderx/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the addressed document does not exist
// (or is not owned by the caller).
var ErrNotFound = errors.New("not found")

// UniqueID indexes the application-level string id every document carries.
var UniqueID = mongo.IndexModel{
	Keys:    bson.D{{Key: "id", Value: 1}},
	Options: options.Index().SetUnique(true),
}

// NotFound wraps ErrNotFound with the entity and id that were missing.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}

// MapFindError converts mongo.ErrNoDocuments into ErrNotFound.
func MapFindError(err error, entity, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound(entity, id)
	}
	return fmt.Errorf("failed to fetch %s %s: %w", entity, id, err)
}

// Collection returns the named collection after creating its indexes.
// A failed index build is logged and the collection is still returned.
func Collection(name string, indexes ...mongo.IndexModel) *mongo.Collection {
	coll := database.DB().Collection(name)
	if len(indexes) == 0 {
		return coll
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		zap.L().Error("failed to create indexes", zap.String("collection", name), zap.Error(err))
	}
	return coll
}
