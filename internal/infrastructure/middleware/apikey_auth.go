package middleware

import (
	"errors"
	"net/http"

	"merchant-data-gateway/internal/application"
	"merchant-data-gateway/internal/domain"

	"github.com/rs/zerolog"
)

// APIKeyHeader carries the bearer secret on public data routes. The
// api_key query parameter is accepted as a fallback.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth resolves public data requests through an issued API key and
// attaches both the key and its merchant session to the context.
func APIKeyAuth(keys *application.APIKeyService, sessions *application.SessionService, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			secret := r.Header.Get(APIKeyHeader)
			if secret == "" {
				secret = r.URL.Query().Get("api_key")
			}
			if secret == "" {
				WriteError(w, http.StatusUnauthorized, "API key required")
				return
			}

			key, err := keys.Resolve(ctx, secret)
			if errors.Is(err, domain.ErrInvalidCredential) {
				WriteError(w, http.StatusUnauthorized, "Invalid or inactive API key")
				return
			}
			if err != nil {
				logger.Error().Err(err).Msg("API key resolution failed")
				WriteError(w, http.StatusInternalServerError, "API key verification failed")
				return
			}

			session, err := sessions.GetByID(ctx, key.SessionID)
			if errors.Is(err, domain.ErrInvalidCredential) {
				// Key outlived its session; treat it like any dead credential.
				WriteError(w, http.StatusUnauthorized, "Invalid or inactive API key")
				return
			}
			if err != nil {
				logger.Error().Err(err).Str("keyId", key.ID).Msg("Session lookup for API key failed")
				WriteError(w, http.StatusInternalServerError, "API key verification failed")
				return
			}

			ctx = domain.WithAPIKey(ctx, key)
			ctx = domain.WithSession(ctx, session)
			ctx = domain.WithShop(ctx, session.Shop)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
