package repository

import (
	"context"
	"fmt"
	"time"

	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/infrastructure/repository/entity"
	"merchant-data-gateway/internal/ports"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoScopeRepository implements ScopeRepository using MongoDB
type MongoScopeRepository struct {
	collection *mongo.Collection
}

// NewMongoScopeRepository creates a new MongoDB scope repository
func NewMongoScopeRepository(db *mongo.Database) ports.ScopeRepository {
	collection := db.Collection("data_scopes")

	// Compound unique index: at most one row per (session, scope name).
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "sessionId", Value: 1},
			{Key: "scopeName", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	_, _ = collection.Indexes().CreateOne(context.Background(), indexModel)

	return &MongoScopeRepository{collection: collection}
}

// EnsureDefaults creates any missing scope rows for the session, disabled.
// Existing rows keep their enabled state.
func (r *MongoScopeRepository) EnsureDefaults(ctx context.Context, sessionID string) error {
	now := time.Now()
	for _, name := range domain.AllScopeNames() {
		filter := bson.M{"sessionId": sessionID, "scopeName": string(name)}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":       uuid.NewString(),
				"sessionId": sessionID,
				"scopeName": string(name),
				"enabled":   false,
				"createdAt": now,
				"updatedAt": now,
			},
		}

		opts := options.Update().SetUpsert(true)
		if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("failed to ensure scope %s: %w", name, err)
		}
	}
	return nil
}

// ListBySession returns all scope rows for the session
func (r *MongoScopeRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.DataScope, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scopeName", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list scopes: %w", err)
	}
	defer cursor.Close(ctx)

	var scopes []*domain.DataScope
	for cursor.Next(ctx) {
		var doc entity.MongoScopeDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode scope: %w", err)
		}
		scopes = append(scopes, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return scopes, nil
}

// Get retrieves one scope row
func (r *MongoScopeRepository) Get(ctx context.Context, sessionID string, name domain.ScopeName) (*domain.DataScope, error) {
	var doc entity.MongoScopeDoc
	filter := bson.M{"sessionId": sessionID, "scopeName": string(name)}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scope: %w", err)
	}

	return doc.ToDomain(), nil
}

// Upsert sets the enabled flag for one (session, scope name) pair
func (r *MongoScopeRepository) Upsert(ctx context.Context, sessionID string, name domain.ScopeName, enabled bool) error {
	now := time.Now()
	filter := bson.M{"sessionId": sessionID, "scopeName": string(name)}
	update := bson.M{
		"$set": bson.M{
			"enabled":   enabled,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"_id":       uuid.NewString(),
			"sessionId": sessionID,
			"scopeName": string(name),
			"createdAt": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert scope: %w", err)
	}

	return nil
}
