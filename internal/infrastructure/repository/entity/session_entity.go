package entity

import (
	"time"

	"merchant-data-gateway/internal/domain"
)

// MongoSessionDoc represents a merchant session in MongoDB
type MongoSessionDoc struct {
	ID          string    `bson:"_id"`
	Shop        string    `bson:"shop"`
	AccessToken string    `bson:"accessToken"`
	Scope       string    `bson:"scope"`
	IsOnline    bool      `bson:"isOnline"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoSessionDoc) ToDomain() *domain.MerchantSession {
	return &domain.MerchantSession{
		ID:          d.ID,
		Shop:        d.Shop,
		AccessToken: d.AccessToken,
		Scope:       d.Scope,
		IsOnline:    d.IsOnline,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
