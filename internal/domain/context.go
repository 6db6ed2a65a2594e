package domain

import "context"

// contextKey is a private type for context keys to avoid collisions
type contextKey string

const (
	sessionContextKey contextKey = "merchant_session"
	apiKeyContextKey  contextKey = "api_key"
	shopContextKey    contextKey = "shop"
)

// WithSession attaches a resolved merchant session to the context.
func WithSession(ctx context.Context, session *MerchantSession) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext returns the resolved merchant session, or nil.
func SessionFromContext(ctx context.Context) *MerchantSession {
	session, _ := ctx.Value(sessionContextKey).(*MerchantSession)
	return session
}

// WithAPIKey attaches the resolved API key to the context.
func WithAPIKey(ctx context.Context, key *APIKey) context.Context {
	return context.WithValue(ctx, apiKeyContextKey, key)
}

// APIKeyFromContext returns the resolved API key, or nil.
func APIKeyFromContext(ctx context.Context) *APIKey {
	key, _ := ctx.Value(apiKeyContextKey).(*APIKey)
	return key
}

// WithShop attaches the resolved shop domain to the context.
func WithShop(ctx context.Context, shop string) context.Context {
	return context.WithValue(ctx, shopContextKey, shop)
}

// ShopFromContext returns the resolved shop domain, or "".
func ShopFromContext(ctx context.Context) string {
	shop, _ := ctx.Value(shopContextKey).(string)
	return shop
}
