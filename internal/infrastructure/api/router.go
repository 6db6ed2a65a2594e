package api

import (
	"net/http"

	"merchant-data-gateway/internal/application"
	"merchant-data-gateway/internal/domain"
	securitymiddleware "merchant-data-gateway/internal/infrastructure/middleware"
	"merchant-data-gateway/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Admin    *AdminHandler
	Auth     *AuthHandler
	Data     *DataHandler
	Webhooks *WebhookHandler

	Sessions *application.SessionService
	Keys     *application.APIKeyService
	Scopes   *application.ScopeService
	Usage    *application.UsageLogger

	TokenDecoder ports.SessionTokenDecoder
	RateLimiter  ports.RateLimiter
	Registry     *prometheus.Registry

	Logger zerolog.Logger
}

// NewRouter assembles the full route tree. Three surfaces share it: the
// session-authenticated admin API, the API-key-authenticated data proxy and
// the unauthenticated OAuth/webhook/ops routes.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public ops routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		securitymiddleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// OAuth flow
	r.Get("/auth", deps.Auth.Begin)
	r.Get("/auth/callback", deps.Auth.Callback)
	r.Get("/auth/verify", deps.Auth.Verify)

	// Platform webhooks
	r.Post("/webhooks/shopify", deps.Webhooks.Handle)

	// Merchant admin API, session-authenticated
	r.Route("/api", func(r chi.Router) {
		r.Use(securitymiddleware.SessionAuth(deps.Sessions, deps.TokenDecoder, deps.Logger))

		r.Get("/scopes", deps.Admin.GetScopes)
		r.Put("/scopes", deps.Admin.UpdateScopes)
		r.Get("/keys", deps.Admin.ListKeys)
		r.Post("/keys", deps.Admin.CreateKey)
		r.Delete("/keys/{keyID}", deps.Admin.RevokeKey)
		r.Get("/endpoint", deps.Admin.GetEndpoint)
	})

	// Public data proxy, API-key-authenticated
	r.Route("/data", func(r chi.Router) {
		r.Use(securitymiddleware.RateLimit(deps.RateLimiter, deps.Logger))
		r.Use(securitymiddleware.APIKeyAuth(deps.Keys, deps.Sessions, deps.Logger))
		r.Use(securitymiddleware.UsageLogging(deps.Usage))

		r.With(securitymiddleware.RequireScope(deps.Scopes, domain.ScopeOrders, deps.Logger)).
			Get("/orders", deps.Data.GetOrders)
		r.With(securitymiddleware.RequireScope(deps.Scopes, domain.ScopeCustomers, deps.Logger)).
			Get("/customers", deps.Data.GetCustomers)
		r.With(securitymiddleware.RequireScope(deps.Scopes, domain.ScopeInventory, deps.Logger)).
			Get("/inventory", deps.Data.GetInventory)
	})

	return r
}
