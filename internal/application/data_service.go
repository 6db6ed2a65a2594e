package application

import (
	"context"
	"time"

	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/ports"

	"github.com/rs/zerolog"
)

const defaultUpstreamTimeout = 15 * time.Second

// DataService is the scope-gated facade over the upstream merchant data
// API. It normalizes filters, calls upstream with the session's credentials
// and projects the response down to the public schema. Upstream failures
// are logged with detail here and surfaced to callers only as ErrUpstream.
type DataService struct {
	client  ports.MerchantDataClient
	logger  zerolog.Logger
	timeout time.Duration
}

// NewDataService creates a new data service
func NewDataService(client ports.MerchantDataClient, logger zerolog.Logger) *DataService {
	return &DataService{
		client:  client,
		logger:  logger,
		timeout: defaultUpstreamTimeout,
	}
}

// GetOrders fetches and reshapes orders for the session.
func (s *DataService) GetOrders(ctx context.Context, session *domain.MerchantSession, opts domain.OrderListOptions) ([]OrderData, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	orders, err := s.client.GetOrders(ctx, session.Shop, session.AccessToken, opts)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", session.Shop).Msg("Upstream orders request failed")
		return nil, domain.ErrUpstream
	}
	return formatOrders(orders), nil
}

// GetCustomers fetches and reshapes customers for the session.
func (s *DataService) GetCustomers(ctx context.Context, session *domain.MerchantSession, opts domain.CustomerListOptions) ([]CustomerData, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	customers, err := s.client.GetCustomers(ctx, session.Shop, session.AccessToken, opts)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", session.Shop).Msg("Upstream customers request failed")
		return nil, domain.ErrUpstream
	}
	return formatCustomers(customers), nil
}

// GetInventory fetches and reshapes products for the session.
func (s *DataService) GetInventory(ctx context.Context, session *domain.MerchantSession, opts domain.ProductListOptions) ([]ProductData, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	products, err := s.client.GetProducts(ctx, session.Shop, session.AccessToken, opts)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", session.Shop).Msg("Upstream products request failed")
		return nil, domain.ErrUpstream
	}
	return formatProducts(products), nil
}
