package domain

import "time"

// MerchantSession is the durable record of one shop's installation.
// Exactly one session exists per shop domain; a re-install overwrites the
// token and scope but keeps the session id.
type MerchantSession struct {
	ID          string    `json:"id" bson:"_id"`
	Shop        string    `json:"shop" bson:"shop"`
	AccessToken string    `json:"-" bson:"accessToken"`
	Scope       string    `json:"scope" bson:"scope"`
	IsOnline    bool      `json:"is_online" bson:"isOnline"`
	CreatedAt   time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updatedAt"`
}

// Grant is the tuple returned by the platform after a successful OAuth
// callback exchange. The handshake mechanics live in the platform adapter.
type Grant struct {
	Shop        string
	AccessToken string
	Scope       string
	IsOnline    bool
}

// AuthState is a short-lived CSRF state saved when the OAuth flow starts
// and consumed exactly once on the callback.
type AuthState struct {
	State     string    `json:"state" bson:"_id"`
	Shop      string    `json:"shop" bson:"shop"`
	ExpiresAt time.Time `json:"expires_at" bson:"expiresAt"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}
