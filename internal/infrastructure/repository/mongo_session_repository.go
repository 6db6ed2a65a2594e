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

// MongoSessionRepository implements SessionRepository using MongoDB
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoDB session repository
func NewMongoSessionRepository(db *mongo.Database) ports.SessionRepository {
	collection := db.Collection("sessions")

	// Unique index enforces one session per shop; concurrent installs race
	// on the upsert instead of creating duplicates.
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "shop", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = collection.Indexes().CreateOne(context.Background(), indexModel)

	return &MongoSessionRepository{collection: collection}
}

// UpsertByShop saves or updates the session keyed by shop domain
func (r *MongoSessionRepository) UpsertByShop(ctx context.Context, session *domain.MerchantSession) (*domain.MerchantSession, error) {
	now := time.Now()
	filter := bson.M{"shop": session.Shop}
	update := bson.M{
		"$set": bson.M{
			"accessToken": session.AccessToken,
			"scope":       session.Scope,
			"isOnline":    session.IsOnline,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"_id":       uuid.NewString(),
			"shop":      session.Shop,
			"createdAt": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc entity.MongoSessionDoc
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return doc.ToDomain(), nil
}

// GetByShop retrieves a session by shop domain
func (r *MongoSessionRepository) GetByShop(ctx context.Context, shop string) (*domain.MerchantSession, error) {
	var doc entity.MongoSessionDoc

	err := r.collection.FindOne(ctx, bson.M{"shop": shop}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return doc.ToDomain(), nil
}

// GetByID retrieves a session by id
func (r *MongoSessionRepository) GetByID(ctx context.Context, id string) (*domain.MerchantSession, error) {
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
