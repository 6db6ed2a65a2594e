package middleware

import (
	"errors"
	"net/http"
	"strings"

	"merchant-data-gateway/internal/application"
	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/ports"

	"github.com/rs/zerolog"
)

// SessionIDHeader carries the opaque session id on the legacy admission
// path.
const SessionIDHeader = "X-Shopify-Session-Id"

// SessionAuth resolves admin requests to a merchant session. Two admission
// paths, first match wins:
//
//  1. A Bearer session token: validated cryptographically, the destination
//     claim names the shop, and the session is looked up by shop domain.
//     A token that fails to decode falls through to path 2, since stale
//     tokens can coexist with a still-valid session id.
//  2. The opaque session id header, looked up directly.
//
// Requests that resolve on neither path are rejected; the request never
// proceeds with a partial identity.
func SessionAuth(sessions *application.SessionService, decoder ports.SessionTokenDecoder, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token := strings.TrimPrefix(authHeader, "Bearer ")

				shop, err := decoder.DecodeShop(token)
				if err == nil {
					session, err := sessions.GetByShop(ctx, shop)
					if errors.Is(err, domain.ErrSessionNotFound) {
						WriteError(w, http.StatusUnauthorized, "Session not found. Please reinstall the app.")
						return
					}
					if err != nil {
						logger.Error().Err(err).Str("shop", shop).Msg("Session lookup failed")
						WriteError(w, http.StatusInternalServerError, "Session verification failed")
						return
					}

					logger.Debug().Str("shop", shop).Msg("Session token verified")
					ctx = domain.WithSession(ctx, session)
					ctx = domain.WithShop(ctx, session.Shop)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}

				// Stale or malformed token; try the session id path.
				logger.Warn().Err(err).Msg("Session token verification failed, falling back to session id")
			}

			sessionID := r.Header.Get(SessionIDHeader)
			if sessionID == "" {
				WriteError(w, http.StatusUnauthorized, "No session ID or token provided")
				return
			}

			session, err := sessions.GetByID(ctx, sessionID)
			if errors.Is(err, domain.ErrInvalidCredential) {
				WriteError(w, http.StatusUnauthorized, "Invalid session")
				return
			}
			if err != nil {
				logger.Error().Err(err).Msg("Session lookup failed")
				WriteError(w, http.StatusInternalServerError, "Session verification failed")
				return
			}

			ctx = domain.WithSession(ctx, session)
			ctx = domain.WithShop(ctx, session.Shop)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
