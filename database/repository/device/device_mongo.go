package deviceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reminderx/database/repository"
	"reminderx/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeviceRepository pairs dispenser models with users. A user has at most one device.
type DeviceRepository interface {
	Upsert(ctx context.Context, userID, model string) (*models.Device, bool, error)
	GetByUser(ctx context.Context, userID string) (*models.Device, error)
	GetByModel(ctx context.Context, model string) (*models.Device, error)
}

type mongoDeviceRepo struct {
	coll *mongo.Collection
}

func NewMongoDeviceRepo() DeviceRepository {
	return &mongoDeviceRepo{coll: repository.Collection("devices",
		mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		mongo.IndexModel{Keys: bson.D{{Key: "model", Value: 1}}},
	)}
}

// Upsert sets the user's device model, creating the pairing if needed.
// The boolean reports whether a new pairing was created.
func (r *mongoDeviceRepo) Upsert(ctx context.Context, userID, model string) (*models.Device, bool, error) {
	now := time.Now()
	update := bson.M{
		"$set":         bson.M{"model": model, "updatedAt": now},
		"$setOnInsert": bson.M{"id": uuid.New().String(), "userId": userID},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before)

	var before models.Device
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&before)
	created := errors.Is(err, mongo.ErrNoDocuments)
	if err != nil && !created {
		return nil, false, fmt.Errorf("failed to upsert device for user %s: %w", userID, err)
	}

	device, err := r.GetByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return device, created, nil
}

func (r *mongoDeviceRepo) GetByUser(ctx context.Context, userID string) (*models.Device, error) {
	var device models.Device
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&device); err != nil {
		return nil, repository.MapFindError(err, "device for user", userID)
	}
	return &device, nil
}

func (r *mongoDeviceRepo) GetByModel(ctx context.Context, model string) (*models.Device, error) {
	var device models.Device
	if err := r.coll.FindOne(ctx, bson.M{"model": model}).Decode(&device); err != nil {
		return nil, repository.MapFindError(err, "device model", model)
	}
	return &device, nil
}
