package domain

import "time"

// APIKey is an opaque bearer credential for the public data endpoints,
// bound to exactly one merchant session. Only a hash of the secret is
// stored; the plaintext is populated once at issuance and never again.
type APIKey struct {
	ID         string     `json:"id" bson:"_id"`
	SessionID  string     `json:"session_id" bson:"sessionId"`
	Name       string     `json:"name" bson:"name"`
	Key        string     `json:"key,omitempty" bson:"-"`
	KeyPrefix  string     `json:"key_prefix" bson:"keyPrefix"`
	KeyHash    string     `json:"-" bson:"keyHash"`
	IsActive   bool       `json:"isActive" bson:"isActive"`
	LastUsedAt *time.Time `json:"lastUsedAt" bson:"lastUsedAt"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
}

// UsageLog is the append-only record of one proxied call made with an API
// key. Written best-effort after the response has been sent.
type UsageLog struct {
	ID         string    `json:"id" bson:"_id"`
	APIKeyID   string    `json:"api_key_id" bson:"apiKeyId"`
	Endpoint   string    `json:"endpoint" bson:"endpoint"`
	Method     string    `json:"method" bson:"method"`
	StatusCode int       `json:"status_code" bson:"statusCode"`
	CreatedAt  time.Time `json:"created_at" bson:"createdAt"`
}
