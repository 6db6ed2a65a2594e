package middleware

import (
	"fmt"
	"net/http"

	"merchant-data-gateway/internal/application"
	"merchant-data-gateway/internal/domain"

	"github.com/rs/zerolog"
)

// RequireScope builds a reusable gate allowing the request only when the
// named data scope is enabled for the resolved session. A missing scope row
// reads as disabled: the gate fails closed. The denial names the scope so
// key holders can troubleshoot.
func RequireScope(scopes *application.ScopeService, name domain.ScopeName, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := domain.SessionFromContext(r.Context())
			if session == nil {
				WriteError(w, http.StatusUnauthorized, "No session found")
				return
			}

			enabled, err := scopes.IsEnabled(r.Context(), session.ID, name)
			if err != nil {
				logger.Error().Err(err).Str("scope", string(name)).Msg("Scope check failed")
				WriteError(w, http.StatusInternalServerError, "Scope verification failed")
				return
			}
			if !enabled {
				WriteError(w, http.StatusForbidden, fmt.Sprintf("Access to %s data is not enabled", name))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
