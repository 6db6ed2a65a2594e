package repository

import (
	"context"
	"fmt"

	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/infrastructure/repository/entity"
	"merchant-data-gateway/internal/ports"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUsageLogRepository implements UsageLogRepository using MongoDB
type MongoUsageLogRepository struct {
	collection *mongo.Collection
}

// NewMongoUsageLogRepository creates a new MongoDB usage log repository
func NewMongoUsageLogRepository(db *mongo.Database) ports.UsageLogRepository {
	return &MongoUsageLogRepository{
		collection: db.Collection("usage_logs"),
	}
}

// Insert appends one usage record
func (r *MongoUsageLogRepository) Insert(ctx context.Context, log *domain.UsageLog) error {
	doc := entity.MongoUsageLogDocFromDomain(log)
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to log API usage: %w", err)
	}
	return nil
}
