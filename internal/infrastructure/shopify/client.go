package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

type client struct {
	apiKey      string
	apiSecret   string
	app         goshopify.App
	redirectURI string
	logger      zerolog.Logger
}

// NewClient creates a merchant data API adapter backed by the go-shopify
// SDK. redirectURI must match the callback registered with the platform.
func NewClient(apiKey, apiSecret, redirectURI string, logger zerolog.Logger) ports.MerchantDataClient {
	app := goshopify.App{
		ApiKey:    apiKey,
		ApiSecret: apiSecret,
	}
	return &client{
		apiKey:      apiKey,
		apiSecret:   apiSecret,
		app:         app,
		redirectURI: redirectURI,
		logger:      logger,
	}
}

// createClient is a helper to create a goshopify client
func (c *client) createClient(shopDomain string, accessToken string) (*goshopify.Client, error) {
	cl, err := goshopify.NewClient(c.app, shopDomain, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return cl, nil
}

// GenerateAuthURL builds the platform authorization URL. Scopes are
// comma-separated with no spaces, as the platform expects.
func (c *client) GenerateAuthURL(shop string, scopes []string, state string) string {
	return fmt.Sprintf(
		"https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		shop,
		c.apiKey,
		url.QueryEscape(strings.Join(scopes, ",")),
		url.QueryEscape(c.redirectURI),
		url.QueryEscape(state),
	)
}

// ExchangeToken exchanges an OAuth callback code for an access grant. The
// token endpoint is called directly because the response carries the
// granted scope string, which the SDK helper discards.
func (c *client) ExchangeToken(ctx context.Context, shop string, code string) (*domain.Grant, error) {
	tokenURL := fmt.Sprintf("https://%s/admin/oauth/access_token", shop)

	values := url.Values{}
	values.Set("client_id", c.apiKey)
	values.Set("client_secret", c.apiSecret)
	values.Set("code", code)
	if c.redirectURI != "" {
		values.Set("redirect_uri", c.redirectURI)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", tokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to exchange token: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &domain.Grant{
		Shop:        shop,
		AccessToken: tokenResponse.AccessToken,
		Scope:       tokenResponse.Scope,
		IsOnline:    false,
	}, nil
}

// GetOrders lists orders for the shop with the given filters
func (c *client) GetOrders(ctx context.Context, shopDomain string, accessToken string, opts domain.OrderListOptions) ([]domain.Order, error) {
	cl, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}

	var resource struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := cl.Get(ctx, "orders.json", &resource, opts); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return resource.Orders, nil
}

// GetCustomers lists customers for the shop with the given filters
func (c *client) GetCustomers(ctx context.Context, shopDomain string, accessToken string, opts domain.CustomerListOptions) ([]domain.Customer, error) {
	cl, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}

	var resource struct {
		Customers []domain.Customer `json:"customers"`
	}
	if err := cl.Get(ctx, "customers.json", &resource, opts); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return resource.Customers, nil
}

// GetProducts lists products for the shop with the given filters
func (c *client) GetProducts(ctx context.Context, shopDomain string, accessToken string, opts domain.ProductListOptions) ([]domain.Product, error) {
	cl, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}

	var resource struct {
		Products []domain.Product `json:"products"`
	}
	if err := cl.Get(ctx, "products.json", &resource, opts); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return resource.Products, nil
}
