package recordsRepo

import (
	"context"
	"fmt"
	"time"

	"reminderx/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new dose record and returns its ID.
func (r *mongoRecordRepo) Create(ctx context.Context, record models.DoseRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("failed to create dose record: %w", err)
	}
	return record.ID, nil
}

// ListByUser fetches a user's dose records, newest first.
func (r *mongoRecordRepo) ListByUser(ctx context.Context, userID string) ([]models.DoseRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.DoseRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
