package inventoryRepo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"reminderx/database/repository"
	"reminderx/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoInventoryRepo struct {
	coll *mongo.Collection
}

// NewMongoInventoryRepo returns a new InventoryRepository instance using MongoDB.
func NewMongoInventoryRepo() InventoryRepository {
	return &mongoInventoryRepo{coll: repository.Collection("inventory",
		repository.UniqueID,
		mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "compartment", Value: 1}}},
	)}
}

func (r *mongoInventoryRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt

	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

func (r *mongoInventoryRepo) GetByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&item); err != nil {
		return nil, repository.MapFindError(err, "inventory item", id)
	}
	return &item, nil
}

func (r *mongoInventoryRepo) list(ctx context.Context, filter bson.M) ([]models.InventoryItem, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve inventory: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.InventoryItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}
	return items, nil
}

func (r *mongoInventoryRepo) ListByUser(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *mongoInventoryRepo) ListAll(ctx context.Context) ([]models.InventoryItem, error) {
	return r.list(ctx, bson.M{})
}

// Update replaces the editable fields of an item owned by item.UserID.
func (r *mongoInventoryRepo) Update(ctx context.Context, item *models.InventoryItem) error {
	item.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"medicineName":   item.MedicineName,
		"dosage":         item.Dosage,
		"expirationDate": item.ExpirationDate,
		"stock":          item.Stock,
		"compartment":    item.Compartment,
		"updatedAt":      item.UpdatedAt,
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": item.ID, "userId": item.UserID}, update)
	if err != nil {
		return fmt.Errorf("failed to update inventory item %s: %w", item.ID, err)
	}
	if result.MatchedCount == 0 {
		return repository.NotFound("inventory item", item.ID)
	}
	return nil
}

func (r *mongoInventoryRepo) Delete(ctx context.Context, id, userID string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete inventory item %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return repository.NotFound("inventory item", id)
	}
	return nil
}

// DeductStock uses a pipeline update so the floor at zero is applied atomically.
func (r *mongoInventoryRepo) DeductStock(ctx context.Context, userID string, compartment, count int) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"stock":     bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$stock", count}}}},
			"updatedAt": time.Now(),
		}}},
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"userId": userID, "compartment": compartment}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to deduct stock for compartment %d: %w", compartment, err)
	}
	if result.MatchedCount == 0 {
		return repository.NotFound("compartment", strconv.Itoa(compartment))
	}
	return nil
}

func (r *mongoInventoryRepo) setFlag(ctx context.Context, id, field string, value bool) (bool, error) {
	filter := bson.M{"id": id, field: bson.M{"$ne": value}}
	update := bson.M{"$set": bson.M{field: value}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to set %s on inventory item %s: %w", field, id, err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *mongoInventoryRepo) SetLowStockNotified(ctx context.Context, id string, value bool) (bool, error) {
	return r.setFlag(ctx, id, "notifiedLowStock", value)
}

func (r *mongoInventoryRepo) SetExpiryNotified(ctx context.Context, id string, value bool) (bool, error) {
	return r.setFlag(ctx, id, "notifiedExpiry", value)
}

func (r *mongoInventoryRepo) ResetFlags(ctx context.Context) (int64, error) {
	result, err := r.coll.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{
		"notifiedLowStock": false,
		"notifiedExpiry":   false,
	}})
	if err != nil {
		return 0, fmt.Errorf("failed to reset inventory flags: %w", err)
	}
	return result.ModifiedCount, nil
}
