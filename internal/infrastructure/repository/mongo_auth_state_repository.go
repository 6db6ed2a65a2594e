package repository

import (
	"context"
	"fmt"
	"time"

	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAuthStateRepository implements AuthStateRepository using MongoDB
type MongoAuthStateRepository struct {
	collection *mongo.Collection
}

// NewMongoAuthStateRepository creates a new MongoDB auth state repository
func NewMongoAuthStateRepository(db *mongo.Database) ports.AuthStateRepository {
	collection := db.Collection("auth_states")

	// TTL index lets Mongo expire abandoned OAuth states on its own.
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	_, _ = collection.Indexes().CreateOne(context.Background(), indexModel)

	return &MongoAuthStateRepository{collection: collection}
}

// Save stores a pending OAuth state
func (r *MongoAuthStateRepository) Save(ctx context.Context, state *domain.AuthState) error {
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now()
	}
	if _, err := r.collection.InsertOne(ctx, state); err != nil {
		return fmt.Errorf("failed to save auth state: %w", err)
	}
	return nil
}

// Consume retrieves and deletes a state in one step
func (r *MongoAuthStateRepository) Consume(ctx context.Context, state string) (*domain.AuthState, error) {
	var doc domain.AuthState

	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": state}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume auth state: %w", err)
	}

	if time.Now().After(doc.ExpiresAt) {
		return nil, nil
	}

	return &doc, nil
}
