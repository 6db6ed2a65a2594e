package entity

import (
	"time"

	"merchant-data-gateway/internal/domain"
)

// MongoAPIKeyDoc represents an API key in MongoDB. The plaintext secret is
// never stored; only the hash and display prefix are.
type MongoAPIKeyDoc struct {
	ID         string     `bson:"_id"`
	SessionID  string     `bson:"sessionId"`
	Name       string     `bson:"name"`
	KeyPrefix  string     `bson:"keyPrefix"`
	KeyHash    string     `bson:"keyHash"`
	IsActive   bool       `bson:"isActive"`
	LastUsedAt *time.Time `bson:"lastUsedAt"`
	CreatedAt  time.Time  `bson:"createdAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoAPIKeyDoc) ToDomain() *domain.APIKey {
	return &domain.APIKey{
		ID:         d.ID,
		SessionID:  d.SessionID,
		Name:       d.Name,
		KeyPrefix:  d.KeyPrefix,
		KeyHash:    d.KeyHash,
		IsActive:   d.IsActive,
		LastUsedAt: d.LastUsedAt,
		CreatedAt:  d.CreatedAt,
	}
}

// MongoAPIKeyDocFromDomain converts a domain entity to a MongoDB document
func MongoAPIKeyDocFromDomain(key *domain.APIKey) *MongoAPIKeyDoc {
	return &MongoAPIKeyDoc{
		ID:         key.ID,
		SessionID:  key.SessionID,
		Name:       key.Name,
		KeyPrefix:  key.KeyPrefix,
		KeyHash:    key.KeyHash,
		IsActive:   key.IsActive,
		LastUsedAt: key.LastUsedAt,
		CreatedAt:  key.CreatedAt,
	}
}
