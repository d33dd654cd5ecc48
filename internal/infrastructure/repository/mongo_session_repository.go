package repository

import (
	"context"
	"fmt"
	"time"

	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/infrastructure/repository/entity"
	"shopify-embedded-app/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSessionRepository implements SessionRepository using MongoDB
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoDB session repository
func NewMongoSessionRepository(db *mongo.Database) ports.SessionRepository {
	return &MongoSessionRepository{
		collection: db.Collection("sessions"),
	}
}

// Save upserts the session document; createdAt is written only on insert
func (r *MongoSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	now := time.Now().UTC()
	doc := entity.MongoSessionDocFromDomain(session)

	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "shop", Value: doc.Shop},
			{Key: "token", Value: doc.Token},
			{Key: "scope", Value: doc.Scope},
			{Key: "updatedAt", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: now}}},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, opts); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	session.UpdatedAt = now
	return nil
}

// Get retrieves a session by ID
func (r *MongoSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	var doc entity.MongoSessionDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return doc.ToDomain(), nil
}

// Delete deletes a session by ID
func (r *MongoSessionRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return result.DeletedCount > 0, nil
}
