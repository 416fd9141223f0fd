package reminderRepo

import (
	"context"
	"fmt"
	"time"

	"reminderx/database/repository"
	"reminderx/models"

	"go.mongodb.org/mongo-driver/bson"
)

// upsertAttempts bounds the update/append race loop in UpsertHistory.
const upsertAttempts = 3

// UpsertHistory is key-idempotent: an existing entry for the same occurrence is
// updated in place, otherwise one is appended. Both paths are single-document
// conditional updates, so a concurrent writer makes one of them miss and the
// loop retries against the new state.
func (r *MongoReminderRepo) UpsertHistory(ctx context.Context, id string, entry models.HistoryEntry) error {
	field, err := ledgerField(entry.ForTime)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < upsertAttempts; attempt++ {
		now := time.Now()

		update := bson.M{"$set": bson.M{
			"history.$.status":    entry.Status,
			"history.$.timestamp": entry.Timestamp,
			field:                 entry.Status,
			"updatedAt":           now,
		}}
		result, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "history.forTime": entry.ForTime}, update)
		if err != nil {
			return fmt.Errorf("failed to update history %s on reminder %s: %w", entry.ForTime, id, err)
		}
		if result.MatchedCount == 1 {
			return nil
		}

		appended, err := r.appendIfAbsent(ctx, id, field, entry)
		if err != nil {
			return err
		}
		if appended {
			return nil
		}

		found, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return repository.NotFound("reminder", id)
		}
	}
	return fmt.Errorf("failed to upsert history %s on reminder %s: concurrent updates", entry.ForTime, id)
}

// AppendHistoryIfAbsent appends entry only if no entry exists for its key.
func (r *MongoReminderRepo) AppendHistoryIfAbsent(ctx context.Context, id string, entry models.HistoryEntry) (bool, error) {
	field, err := ledgerField(entry.ForTime)
	if err != nil {
		return false, err
	}

	appended, err := r.appendIfAbsent(ctx, id, field, entry)
	if err != nil || appended {
		return appended, err
	}

	found, err := r.exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, repository.NotFound("reminder", id)
	}
	return false, nil
}

func (r *MongoReminderRepo) appendIfAbsent(ctx context.Context, id, field string, entry models.HistoryEntry) (bool, error) {
	filter := bson.M{"id": id, "history.forTime": bson.M{"$ne": entry.ForTime}}
	update := bson.M{
		"$push": bson.M{"history": entry},
		"$set":  bson.M{field: entry.Status, "updatedAt": time.Now()},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to append history %s on reminder %s: %w", entry.ForTime, id, err)
	}
	return result.MatchedCount == 1, nil
}
