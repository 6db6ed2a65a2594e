package repository

import (
	"context"
	"fmt"
	"time"

	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/infrastructure/repository/entity"
	"merchant-data-gateway/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAPIKeyRepository implements APIKeyRepository using MongoDB
type MongoAPIKeyRepository struct {
	collection *mongo.Collection
}

// NewMongoAPIKeyRepository creates a new MongoDB API key repository
func NewMongoAPIKeyRepository(db *mongo.Database) ports.APIKeyRepository {
	collection := db.Collection("api_keys")

	// Unique index on the secret hash; a collision on insert surfaces as a
	// duplicate key error instead of a second usable credential.
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "keyHash", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = collection.Indexes().CreateOne(context.Background(), indexModel)

	return &MongoAPIKeyRepository{collection: collection}
}

// Insert stores a newly issued key
func (r *MongoAPIKeyRepository) Insert(ctx context.Context, key *domain.APIKey) error {
	doc := entity.MongoAPIKeyDocFromDomain(key)
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert API key: %w", err)
	}
	return nil
}

// ListBySession returns all keys for the session, newest first
func (r *MongoAPIKeyRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.APIKey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	defer cursor.Close(ctx)

	var keys []*domain.APIKey
	for cursor.Next(ctx) {
		var doc entity.MongoAPIKeyDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode API key: %w", err)
		}
		keys = append(keys, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return keys, nil
}

// GetByHash retrieves a key by its secret hash
func (r *MongoAPIKeyRepository) GetByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	var doc entity.MongoAPIKeyDoc

	err := r.collection.FindOne(ctx, bson.M{"keyHash": keyHash}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get API key: %w", err)
	}

	return doc.ToDomain(), nil
}

// GetByID retrieves a key by id
func (r *MongoAPIKeyRepository) GetByID(ctx context.Context, id string) (*domain.APIKey, error) {
	var doc entity.MongoAPIKeyDoc

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get API key: %w", err)
	}

	return doc.ToDomain(), nil
}

// Deactivate marks a key inactive. Revoked keys are kept for the audit
// trail; rows are never deleted.
func (r *MongoAPIKeyRepository) Deactivate(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"isActive": false}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("failed to deactivate API key: %w", err)
	}
	return nil
}

// DeactivateBySession marks every key of the session inactive
func (r *MongoAPIKeyRepository) DeactivateBySession(ctx context.Context, sessionID string) error {
	update := bson.M{"$set": bson.M{"isActive": false}}
	if _, err := r.collection.UpdateMany(ctx, bson.M{"sessionId": sessionID}, update); err != nil {
		return fmt.Errorf("failed to deactivate session API keys: %w", err)
	}
	return nil
}

// TouchLastUsed records when the key was last resolved
func (r *MongoAPIKeyRepository) TouchLastUsed(ctx context.Context, id string, usedAt time.Time) error {
	update := bson.M{"$set": bson.M{"lastUsedAt": usedAt}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("failed to update last-used timestamp: %w", err)
	}
	return nil
}
