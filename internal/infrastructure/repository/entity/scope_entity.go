package entity

import (
	"time"

	"merchant-data-gateway/internal/domain"
)

// MongoScopeDoc represents a data scope toggle in MongoDB
type MongoScopeDoc struct {
	ID        string    `bson:"_id"`
	SessionID string    `bson:"sessionId"`
	ScopeName string    `bson:"scopeName"`
	Enabled   bool      `bson:"enabled"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoScopeDoc) ToDomain() *domain.DataScope {
	return &domain.DataScope{
		ID:        d.ID,
		SessionID: d.SessionID,
		ScopeName: domain.ScopeName(d.ScopeName),
		Enabled:   d.Enabled,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
