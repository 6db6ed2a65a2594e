package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"merchant-data-gateway/internal/application"
	"merchant-data-gateway/internal/infrastructure/api"
	"merchant-data-gateway/internal/infrastructure/metrics"
	"merchant-data-gateway/internal/infrastructure/ratelimit"
	"merchant-data-gateway/internal/infrastructure/repository"
	shopifyinfra "merchant-data-gateway/internal/infrastructure/shopify"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Get configuration from environment
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}

	apiKey := os.Getenv("SHOPIFY_API_KEY")
	apiSecret := os.Getenv("SHOPIFY_API_SECRET")
	if apiKey == "" || apiSecret == "" {
		logger.Fatal().Msg("SHOPIFY_API_KEY and SHOPIFY_API_SECRET environment variables are required")
	}

	oauthScopes := strings.Split(envOr("SHOPIFY_SCOPES", "read_orders,read_customers,read_products"), ",")

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(envOr("MONGODB_DATABASE", "merchant_gateway"))

	// Initialize repositories
	sessionRepo := repository.NewMongoSessionRepository(db)
	scopeRepo := repository.NewMongoScopeRepository(db)
	apiKeyRepo := repository.NewMongoAPIKeyRepository(db)
	usageRepo := repository.NewMongoUsageLogRepository(db)
	authStateRepo := repository.NewMongoAuthStateRepository(db)

	// Initialize rate limiter, Redis-backed when configured
	rateLimit := int64(envIntOr("API_RATE_LIMIT", 100))
	rateWindow := time.Duration(envIntOr("API_RATE_WINDOW_MS", 60000)) * time.Millisecond

	limiter := ratelimit.NewMemoryLimiter(rateLimit, rateWindow)
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := goredis.ParseURL(redisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Invalid REDIS_URL")
		}
		limiter = ratelimit.NewRedisLimiter(goredis.NewClient(opts), rateLimit, rateWindow)
		logger.Info().Msg("Using Redis-backed rate limiter")
	} else {
		logger.Warn().Msg("REDIS_URL not set, falling back to in-memory rate limiter")
	}

	// Initialize upstream client and token verification
	upstream := shopifyinfra.NewClient(apiKey, apiSecret, appURL+"/auth/callback", logger)
	tokenDecoder := shopifyinfra.NewSessionTokenDecoder(apiKey, apiSecret)
	webhookVerifier := shopifyinfra.NewWebhookVerifier(apiSecret)

	// Initialize application services
	sessionService := application.NewSessionService(sessionRepo, scopeRepo, logger)
	scopeService := application.NewScopeService(scopeRepo, logger)
	apiKeyService := application.NewAPIKeyService(apiKeyRepo, logger)
	usageLogger := application.NewUsageLogger(usageRepo, logger)
	dataService := application.NewDataService(upstream, logger)

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	gatewayMetrics := metrics.New(registry)

	// Setup router
	router := api.NewRouter(api.RouterDeps{
		Admin:    api.NewAdminHandler(scopeService, apiKeyService, appURL, logger),
		Auth:     api.NewAuthHandler(upstream, sessionService, authStateRepo, oauthScopes, logger),
		Data:     api.NewDataHandler(dataService, gatewayMetrics, logger),
		Webhooks: api.NewWebhookHandler(webhookVerifier, sessionService, scopeService, apiKeyService, logger),

		Sessions: sessionService,
		Keys:     apiKeyService,
		Scopes:   scopeService,
		Usage:    usageLogger,

		TokenDecoder: tokenDecoder,
		RateLimiter:  limiter,
		Registry:     registry,

		Logger: logger,
	})

	port := envOr("PORT", "8080")

	logger.Info().Str("port", port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
