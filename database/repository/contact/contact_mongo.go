package contactRepo

import (
	"context"
	"fmt"

	"reminderx/database/repository"
	"reminderx/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ContactRepository defines emergency contact persistence.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	ListByUser(ctx context.Context, userID string) ([]models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id, userID string) error
}

type mongoContactRepo struct {
	coll *mongo.Collection
}

// NewMongoContactRepo returns a new ContactRepository instance using MongoDB.
func NewMongoContactRepo() ContactRepository {
	return &mongoContactRepo{coll: repository.Collection("contacts",
		repository.UniqueID,
		mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}},
	)}
}

func (r *mongoContactRepo) Create(ctx context.Context, contact *models.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (r *mongoContactRepo) ListByUser(ctx context.Context, userID string) ([]models.Contact, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve contacts for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	contacts := []models.Contact{}
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}
	return contacts, nil
}

func (r *mongoContactRepo) Update(ctx context.Context, contact *models.Contact) error {
	update := bson.M{"$set": bson.M{"name": contact.Name, "phoneNumber": contact.PhoneNumber}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": contact.ID, "userId": contact.UserID}, update)
	if err != nil {
		return fmt.Errorf("failed to update contact %s: %w", contact.ID, err)
	}
	if result.MatchedCount == 0 {
		return repository.NotFound("contact", contact.ID)
	}
	return nil
}

func (r *mongoContactRepo) Delete(ctx context.Context, id, userID string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return repository.NotFound("contact", id)
	}
	return nil
}
