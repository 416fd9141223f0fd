package recordsRepo

import (
	"context"

	"reminderx/database/repository"
	"reminderx/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DoseRecordRepository stores the taken/skipped dose log shown to users.
type DoseRecordRepository interface {
	Create(ctx context.Context, record models.DoseRecord) (string, error)
	ListByUser(ctx context.Context, userID string) ([]models.DoseRecord, error)
}

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a new DoseRecordRepository instance using MongoDB.
func NewMongoRecordRepo() DoseRecordRepository {
	return &mongoRecordRepo{coll: repository.Collection("dose_records",
		repository.UniqueID,
		mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "time", Value: -1}}},
	)}
}
