package reminderRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reminderx/database/repository"
	"reminderx/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ledgerField returns the document path of a ledger entry. Keys become field
// names, so they must not contain path separators or operators.
func ledgerField(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, ".$") {
		return "", fmt.Errorf("invalid occurrence key %q", key)
	}
	return "notifiedTimes." + key, nil
}

// ClaimOccurrence is a compare-and-set on one ledger key: the update only
// matches while the key is absent, so concurrent scanners cannot both win.
func (r *MongoReminderRepo) ClaimOccurrence(ctx context.Context, id, key string) (bool, error) {
	field, err := ledgerField(key)
	if err != nil {
		return false, err
	}

	filter := bson.M{"id": id, field: bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{field: models.LedgerNotified, "updatedAt": time.Now()}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to claim %s on reminder %s: %w", key, id, err)
	}
	if result.MatchedCount == 1 {
		return true, nil
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

// ResetLedgers empties the dedup ledger of every reminder. History is untouched.
func (r *MongoReminderRepo) ResetLedgers(ctx context.Context) (int64, error) {
	result, err := r.coll.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"notifiedTimes": bson.M{}}})
	if err != nil {
		return 0, fmt.Errorf("failed to reset reminder ledgers: %w", err)
	}
	return result.ModifiedCount, nil
}
