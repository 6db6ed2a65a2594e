package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"merchant-data-gateway/internal/application"
	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/infrastructure/metrics"
	"merchant-data-gateway/internal/infrastructure/middleware"
	"merchant-data-gateway/internal/infrastructure/ratelimit"
	"merchant-data-gateway/internal/infrastructure/repository/memory"
	"merchant-data-gateway/internal/infrastructure/shopify"
	"merchant-data-gateway/internal/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "test-webhook-secret"

type stubUpstream struct {
	orders []domain.Order
	err    error
}

func (s *stubUpstream) GenerateAuthURL(shop string, scopes []string, state string) string {
	return "https://" + shop + "/admin/oauth/authorize?scope=" + strings.Join(scopes, ",") + "&state=" + state
}

func (s *stubUpstream) ExchangeToken(ctx context.Context, shop, code string) (*domain.Grant, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Grant{Shop: shop, AccessToken: "granted-" + code, Scope: "read_orders"}, nil
}

func (s *stubUpstream) GetOrders(ctx context.Context, shop, accessToken string, opts domain.OrderListOptions) ([]domain.Order, error) {
	return s.orders, s.err
}

func (s *stubUpstream) GetCustomers(ctx context.Context, shop, accessToken string, opts domain.CustomerListOptions) ([]domain.Customer, error) {
	return nil, s.err
}

func (s *stubUpstream) GetProducts(ctx context.Context, shop, accessToken string, opts domain.ProductListOptions) ([]domain.Product, error) {
	return nil, s.err
}

type gatewayFixture struct {
	router   http.Handler
	upstream *stubUpstream
	usage    *memory.UsageLogStore

	sessions *application.SessionService
	scopes   *application.ScopeService
	keys     *application.APIKeyService

	session *domain.MerchantSession
}

func newGatewayFixture(t *testing.T, limiter ports.RateLimiter) *gatewayFixture {
	t.Helper()
	logger := zerolog.Nop()

	sessionStore := memory.NewSessionStore()
	scopeStore := memory.NewScopeStore()
	keyStore := memory.NewAPIKeyStore()
	usageStore := memory.NewUsageLogStore()
	stateStore := memory.NewAuthStateStore()

	upstream := &stubUpstream{orders: []domain.Order{{ID: 1, OrderNumber: 1001, TotalPrice: "10.00", Currency: "USD"}}}

	sessionSvc := application.NewSessionService(sessionStore, scopeStore, logger)
	scopeSvc := application.NewScopeService(scopeStore, logger)
	keySvc := application.NewAPIKeyService(keyStore, logger)
	usageSvc := application.NewUsageLogger(usageStore, logger)
	dataSvc := application.NewDataService(upstream, logger)

	registry := prometheus.NewRegistry()

	if limiter == nil {
		limiter = ratelimit.NewMemoryLimiter(1000, time.Hour)
	}

	router := NewRouter(RouterDeps{
		Admin:    NewAdminHandler(scopeSvc, keySvc, "http://localhost:8080", logger),
		Auth:     NewAuthHandler(upstream, sessionSvc, stateStore, []string{"read_orders"}, logger),
		Data:     NewDataHandler(dataSvc, metrics.New(registry), logger),
		Webhooks: NewWebhookHandler(shopify.NewWebhookVerifier(webhookSecret), sessionSvc, scopeSvc, keySvc, logger),

		Sessions: sessionSvc,
		Keys:     keySvc,
		Scopes:   scopeSvc,
		Usage:    usageSvc,

		TokenDecoder: shopify.NewSessionTokenDecoder("api-key", "api-secret"),
		RateLimiter:  limiter,
		Registry:     registry,

		Logger: logger,
	})

	session, err := sessionSvc.Install(context.Background(), &domain.Grant{
		Shop:        "shop.example.com",
		AccessToken: "token",
		Scope:       "read_orders",
	})
	require.NoError(t, err)

	return &gatewayFixture{
		router:   router,
		upstream: upstream,
		usage:    usageStore,
		sessions: sessionSvc,
		scopes:   scopeSvc,
		keys:     keySvc,
		session:  session,
	}
}

func (f *gatewayFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *gatewayFixture) adminReq(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.SessionIDHeader, f.session.ID)
	return req
}

func (f *gatewayFixture) issueKey(t *testing.T) string {
	t.Helper()
	key, err := f.keys.Issue(context.Background(), f.session.ID, "test key")
	require.NoError(t, err)
	return key.Key
}

func (f *gatewayFixture) enableScope(t *testing.T, name domain.ScopeName) {
	t.Helper()
	_, err := f.scopes.Update(context.Background(), f.session.ID, []application.ScopeUpdate{
		{ScopeName: name, Enabled: true},
	})
	require.NoError(t, err)
}

func TestRouter_Health(t *testing.T) {
	fixture := newGatewayFixture(t, nil)

	rec := fixture.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_KeyLifecycle(t *testing.T) {
	fixture := newGatewayFixture(t, nil)

	t.Run("create requires a name", func(t *testing.T) {
		rec := fixture.do(fixture.adminReq(http.MethodPost, "/api/keys", `{}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Key name required"}`, rec.Body.String())
	})

	t.Run("create returns the secret once, listing masks it", func(t *testing.T) {
		rec := fixture.do(fixture.adminReq(http.MethodPost, "/api/keys", `{"name":"Production"}`))
		require.Equal(t, http.StatusOK, rec.Code)

		var created struct {
			Key domain.APIKey `json:"key"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "Production", created.Key.Name)
		assert.True(t, created.Key.IsActive)
		assert.Regexp(t, `^sdk_[0-9a-f]{32}$`, created.Key.Key)

		rec = fixture.do(fixture.adminReq(http.MethodGet, "/api/keys", ""))
		require.Equal(t, http.StatusOK, rec.Code)

		var listed struct {
			Keys []domain.APIKey `json:"keys"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
		require.Len(t, listed.Keys, 1)
		assert.Empty(t, listed.Keys[0].Key)
		assert.Contains(t, listed.Keys[0].KeyPrefix, "sdk_")
	})

	t.Run("revoking another session's key yields 404", func(t *testing.T) {
		other, err := fixture.sessions.Install(context.Background(), &domain.Grant{
			Shop:        "other.example.com",
			AccessToken: "token",
		})
		require.NoError(t, err)
		foreign, err := fixture.keys.Issue(context.Background(), other.ID, "foreign")
		require.NoError(t, err)

		rec := fixture.do(fixture.adminReq(http.MethodDelete, "/api/keys/"+foreign.ID, ""))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"API key not found"}`, rec.Body.String())
	})

	t.Run("revoke succeeds for the owner", func(t *testing.T) {
		key, err := fixture.keys.Issue(context.Background(), fixture.session.ID, "to revoke")
		require.NoError(t, err)

		rec := fixture.do(fixture.adminReq(http.MethodDelete, "/api/keys/"+key.ID, ""))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	})
}

func TestRouter_Scopes(t *testing.T) {
	fixture := newGatewayFixture(t, nil)

	t.Run("lists the seeded defaults", func(t *testing.T) {
		rec := fixture.do(fixture.adminReq(http.MethodGet, "/api/scopes", ""))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Scopes []domain.DataScope `json:"scopes"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Scopes, 3)
		for _, scope := range body.Scopes {
			assert.False(t, scope.Enabled)
		}
	})

	t.Run("rejects a non-array payload", func(t *testing.T) {
		rec := fixture.do(fixture.adminReq(http.MethodPut, "/api/scopes", `{"scopes":"orders"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Scopes must be an array"}`, rec.Body.String())
	})

	t.Run("updates toggles", func(t *testing.T) {
		rec := fixture.do(fixture.adminReq(http.MethodPut, "/api/scopes",
			`{"scopes":[{"scopeName":"orders","enabled":true}]}`))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Scopes []domain.DataScope `json:"scopes"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		for _, scope := range body.Scopes {
			if scope.ScopeName == domain.ScopeOrders {
				assert.True(t, scope.Enabled)
			} else {
				assert.False(t, scope.Enabled)
			}
		}
	})

	t.Run("requires a session", func(t *testing.T) {
		rec := fixture.do(httptest.NewRequest(http.MethodGet, "/api/scopes", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"No session ID or token provided"}`, rec.Body.String())
	})
}

func TestRouter_DataProxy(t *testing.T) {
	t.Run("denies a disabled scope", func(t *testing.T) {
		fixture := newGatewayFixture(t, nil)
		secret := fixture.issueKey(t)

		req := httptest.NewRequest(http.MethodGet, "/data/orders", nil)
		req.Header.Set(middleware.APIKeyHeader, secret)
		rec := fixture.do(req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"Access to orders data is not enabled"}`, rec.Body.String())
	})

	t.Run("serves an enabled scope", func(t *testing.T) {
		fixture := newGatewayFixture(t, nil)
		secret := fixture.issueKey(t)
		fixture.enableScope(t, domain.ScopeOrders)

		req := httptest.NewRequest(http.MethodGet, "/data/orders?limit=10", nil)
		req.Header.Set(middleware.APIKeyHeader, secret)
		rec := fixture.do(req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Success bool              `json:"success"`
			Count   int               `json:"count"`
			Data    []json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, 1, body.Count)
		assert.Len(t, body.Data, 1)
	})

	t.Run("requires an API key", func(t *testing.T) {
		fixture := newGatewayFixture(t, nil)

		rec := fixture.do(httptest.NewRequest(http.MethodGet, "/data/orders", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"API key required"}`, rec.Body.String())
	})

	t.Run("masks upstream failures", func(t *testing.T) {
		fixture := newGatewayFixture(t, nil)
		secret := fixture.issueKey(t)
		fixture.enableScope(t, domain.ScopeOrders)
		fixture.upstream.err = errors.New("upstream timeout, token=abc123")

		req := httptest.NewRequest(http.MethodGet, "/data/orders", nil)
		req.Header.Set(middleware.APIKeyHeader, secret)
		rec := fixture.do(req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"Failed to fetch orders data"}`, rec.Body.String())
	})

	t.Run("records usage", func(t *testing.T) {
		fixture := newGatewayFixture(t, nil)
		secret := fixture.issueKey(t)
		fixture.enableScope(t, domain.ScopeOrders)

		req := httptest.NewRequest(http.MethodGet, "/data/orders", nil)
		req.Header.Set(middleware.APIKeyHeader, secret)
		fixture.do(req)

		require.Eventually(t, func() bool {
			return len(fixture.usage.Entries()) == 1
		}, 2*time.Second, 10*time.Millisecond)

		entry := fixture.usage.Entries()[0]
		assert.Equal(t, "/data/orders", entry.Endpoint)
		assert.Equal(t, http.StatusOK, entry.StatusCode)
	})

	t.Run("throttles over the limit", func(t *testing.T) {
		fixture := newGatewayFixture(t, ratelimit.NewMemoryLimiter(2, time.Hour))
		secret := fixture.issueKey(t)
		fixture.enableScope(t, domain.ScopeOrders)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/data/orders", nil)
			req.Header.Set(middleware.APIKeyHeader, secret)
			require.Equal(t, http.StatusOK, fixture.do(req).Code)
		}

		req := httptest.NewRequest(http.MethodGet, "/data/orders", nil)
		req.Header.Set(middleware.APIKeyHeader, secret)
		rec := fixture.do(req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.JSONEq(t, `{"error":"Too many requests, please try again later"}`, rec.Body.String())
	})
}

func TestRouter_OAuthFlow(t *testing.T) {
	t.Run("begin requires a shop", func(t *testing.T) {
		fixture := newGatewayFixture(t, nil)
		rec := fixture.do(httptest.NewRequest(http.MethodGet, "/auth", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Shop parameter required"}`, rec.Body.String())
	})

	t.Run("full install flow", func(t *testing.T) {
		fixture := newGatewayFixture(t, nil)

		rec := fixture.do(httptest.NewRequest(http.MethodGet, "/auth?shop=new.example.com", nil))
		require.Equal(t, http.StatusFound, rec.Code)

		authURL, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "new.example.com", authURL.Host)
		state := authURL.Query().Get("state")
		require.NotEmpty(t, state)

		callback := "/auth/callback?shop=new.example.com&code=authcode&state=" + state
		rec = fixture.do(httptest.NewRequest(http.MethodGet, callback, nil))
		require.Equal(t, http.StatusFound, rec.Code)

		redirect, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "new.example.com", redirect.Query().Get("shop"))
		sessionID := redirect.Query().Get("session")
		require.NotEmpty(t, sessionID)

		rec = fixture.do(httptest.NewRequest(http.MethodGet, "/auth/verify?sessionId="+sessionID, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"valid":true,"shop":"new.example.com"}`, rec.Body.String())
	})

	t.Run("callback rejects a replayed state", func(t *testing.T) {
		fixture := newGatewayFixture(t, nil)

		rec := fixture.do(httptest.NewRequest(http.MethodGet, "/auth?shop=new.example.com", nil))
		require.Equal(t, http.StatusFound, rec.Code)
		authURL, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		state := authURL.Query().Get("state")

		callback := "/auth/callback?shop=new.example.com&code=authcode&state=" + state
		require.Equal(t, http.StatusFound, fixture.do(httptest.NewRequest(http.MethodGet, callback, nil)).Code)

		rec = fixture.do(httptest.NewRequest(http.MethodGet, callback, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid OAuth state"}`, rec.Body.String())
	})

	t.Run("verify rejects an unknown session", func(t *testing.T) {
		fixture := newGatewayFixture(t, nil)
		rec := fixture.do(httptest.NewRequest(http.MethodGet, "/auth/verify?sessionId=nope", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid session"}`, rec.Body.String())
	})
}

func TestRouter_UninstallWebhook(t *testing.T) {
	signPayload := func(payload []byte) string {
		mac := hmac.New(sha256.New, []byte(webhookSecret))
		mac.Write(payload)
		return base64.StdEncoding.EncodeToString(mac.Sum(nil))
	}

	t.Run("rejects an invalid signature", func(t *testing.T) {
		fixture := newGatewayFixture(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", strings.NewReader(`{}`))
		req.Header.Set("X-Shopify-Topic", "app/uninstalled")
		req.Header.Set("X-Shopify-Hmac-SHA256", "bogus")
		rec := fixture.do(req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid signature"}`, rec.Body.String())
	})

	t.Run("uninstall disables scopes and revokes keys", func(t *testing.T) {
		fixture := newGatewayFixture(t, nil)
		secret := fixture.issueKey(t)
		fixture.enableScope(t, domain.ScopeOrders)

		payload := []byte(`{"domain":"shop.example.com"}`)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", strings.NewReader(string(payload)))
		req.Header.Set("X-Shopify-Topic", "app/uninstalled")
		req.Header.Set("X-Shopify-Shop-Domain", "shop.example.com")
		req.Header.Set("X-Shopify-Hmac-SHA256", signPayload(payload))
		rec := fixture.do(req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received":"true"}`, rec.Body.String())

		enabled, err := fixture.scopes.IsEnabled(context.Background(), fixture.session.ID, domain.ScopeOrders)
		require.NoError(t, err)
		assert.False(t, enabled)

		_, err = fixture.keys.Resolve(context.Background(), secret)
		assert.ErrorIs(t, err, domain.ErrInvalidCredential)
	})

	t.Run("uninstall for an unknown shop still acks", func(t *testing.T) {
		fixture := newGatewayFixture(t, nil)

		payload := []byte(`{"domain":"ghost.example.com"}`)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", strings.NewReader(string(payload)))
		req.Header.Set("X-Shopify-Topic", "app/uninstalled")
		req.Header.Set("X-Shopify-Hmac-SHA256", signPayload(payload))
		rec := fixture.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
