package entity

import (
	"time"

	"merchant-data-gateway/internal/domain"
)

// MongoUsageLogDoc represents one proxied-call record in MongoDB
type MongoUsageLogDoc struct {
	ID         string    `bson:"_id"`
	APIKeyID   string    `bson:"apiKeyId"`
	Endpoint   string    `bson:"endpoint"`
	Method     string    `bson:"method"`
	StatusCode int       `bson:"statusCode"`
	CreatedAt  time.Time `bson:"createdAt"`
}

// MongoUsageLogDocFromDomain converts a domain entity to a MongoDB document
func MongoUsageLogDocFromDomain(log *domain.UsageLog) *MongoUsageLogDoc {
	return &MongoUsageLogDoc{
		ID:         log.ID,
		APIKeyID:   log.APIKeyID,
		Endpoint:   log.Endpoint,
		Method:     log.Method,
		StatusCode: log.StatusCode,
		CreatedAt:  log.CreatedAt,
	}
}
