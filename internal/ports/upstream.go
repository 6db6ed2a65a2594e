package ports

import (
	"context"

	"merchant-data-gateway/internal/domain"
)

// MerchantDataClient defines the interface for the upstream merchant data
// API: the OAuth grant exchange plus the three resource listings the
// gateway proxies.
type MerchantDataClient interface {
	// GenerateAuthURL builds the platform authorization URL for a shop.
	GenerateAuthURL(shop string, scopes []string, state string) string

	// ExchangeToken exchanges an OAuth callback code for an access grant.
	ExchangeToken(ctx context.Context, shop string, code string) (*domain.Grant, error)

	// GetOrders lists orders for the shop with the given filters.
	GetOrders(ctx context.Context, shop string, accessToken string, opts domain.OrderListOptions) ([]domain.Order, error)

	// GetCustomers lists customers for the shop with the given filters.
	GetCustomers(ctx context.Context, shop string, accessToken string, opts domain.CustomerListOptions) ([]domain.Customer, error)

	// GetProducts lists products for the shop with the given filters.
	GetProducts(ctx context.Context, shop string, accessToken string, opts domain.ProductListOptions) ([]domain.Product, error)
}

// SessionTokenDecoder validates a signed session token and extracts the
// shop domain from its destination claim.
type SessionTokenDecoder interface {
	DecodeShop(token string) (string, error)
}

// RateLimiter admits or rejects a request for a client identity key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
