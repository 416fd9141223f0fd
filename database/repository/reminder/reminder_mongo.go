package reminderRepo

import (
	"context"
	"fmt"
	"time"

	"reminderx/database/repository"
	"reminderx/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoReminderRepo implements ReminderRepository using MongoDB.
type MongoReminderRepo struct {
	coll *mongo.Collection
}

// NewMongoReminderRepo creates a new instance of ReminderRepository using MongoDB.
func NewMongoReminderRepo() ReminderRepository {
	// times and dosage.time back the per-minute scan; userId backs the per-user listings.
	return &MongoReminderRepo{coll: repository.Collection("reminders",
		repository.UniqueID,
		mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "times", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "dosage.time", Value: 1}}},
	)}
}

// Create inserts a new reminder with an empty ledger and history.
func (r *MongoReminderRepo) Create(ctx context.Context, reminder *models.Reminder) error {
	if reminder.ID == "" {
		reminder.ID = uuid.New().String()
	}
	if reminder.NotifiedTimes == nil {
		reminder.NotifiedTimes = map[string]string{}
	}
	if reminder.History == nil {
		reminder.History = []models.HistoryEntry{}
	}
	if reminder.SpecificDays == nil {
		reminder.SpecificDays = []string{}
	}
	now := time.Now()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, reminder); err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

// GetByID retrieves a reminder by its unique ID.
func (r *MongoReminderRepo) GetByID(ctx context.Context, id string) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&reminder); err != nil {
		return nil, repository.MapFindError(err, "reminder", id)
	}
	return &reminder, nil
}

func (r *MongoReminderRepo) find(ctx context.Context, filter bson.M) ([]models.Reminder, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reminders: %w", err)
	}
	defer cursor.Close(ctx)

	reminders := []models.Reminder{}
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode reminders: %w", err)
	}
	return reminders, nil
}

// ListByUser retrieves every reminder owned by a user.
func (r *MongoReminderRepo) ListByUser(ctx context.Context, userID string) ([]models.Reminder, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// ListScheduledAt returns reminders with clock in either times or a dosage.
// Both fields are indexed, so a scan only touches reminders that can be due
// at this minute, and a reminder whose two lists disagree is still loaded and
// reported as an integrity error by the caller.
func (r *MongoReminderRepo) ListScheduledAt(ctx context.Context, clock string) ([]models.Reminder, error) {
	return r.find(ctx, scheduledAtFilter(clock))
}

func scheduledAtFilter(clock string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"times": clock},
		bson.M{"dosage.time": clock},
	}}
}

// Delete removes a reminder owned by userID.
func (r *MongoReminderRepo) Delete(ctx context.Context, id, userID string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete reminder with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return repository.NotFound("reminder", id)
	}
	return nil
}

// exists distinguishes "document gone" from "precondition not met" after a
// conditional update matched nothing.
func (r *MongoReminderRepo) exists(ctx context.Context, id string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return false, fmt.Errorf("failed to look up reminder %s: %w", id, err)
	}
	return n > 0, nil
}
