package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"time"

	"merchant-data-gateway/internal/application"
	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/infrastructure/middleware"
	"merchant-data-gateway/internal/ports"

	"github.com/rs/zerolog"
)

const authStateTTL = 10 * time.Minute

// AuthHandler drives the OAuth install flow: redirect to the platform
// authorization page, exchange the callback code for an access grant and
// persist the merchant session.
type AuthHandler struct {
	upstream ports.MerchantDataClient
	sessions *application.SessionService
	states   ports.AuthStateRepository
	scopes   []string
	logger   zerolog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(upstream ports.MerchantDataClient, sessions *application.SessionService, states ports.AuthStateRepository, scopes []string, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		upstream: upstream,
		sessions: sessions,
		states:   states,
		scopes:   scopes,
		logger:   logger,
	}
}

// Begin handles GET /auth
func (h *AuthHandler) Begin(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")
	if shop == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Shop parameter required")
		return
	}

	state, err := newStateToken()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate OAuth state")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to start authentication")
		return
	}

	record := &domain.AuthState{
		State:     state,
		Shop:      shop,
		ExpiresAt: time.Now().Add(authStateTTL),
		CreatedAt: time.Now(),
	}
	if err := h.states.Save(r.Context(), record); err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to persist OAuth state")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to start authentication")
		return
	}

	http.Redirect(w, r, h.upstream.GenerateAuthURL(shop, h.scopes, state), http.StatusFound)
}

// Callback handles GET /auth/callback
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	shop := q.Get("shop")
	code := q.Get("code")
	state := q.Get("state")
	if shop == "" || code == "" || state == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	record, err := h.states.Consume(r.Context(), state)
	if err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("OAuth state lookup failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}
	if record == nil || record.Shop != shop {
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid OAuth state")
		return
	}

	grant, err := h.upstream.ExchangeToken(r.Context(), shop, code)
	if err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("OAuth token exchange failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	session, err := h.sessions.Install(r.Context(), grant)
	if err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to persist session")
		middleware.WriteError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	h.logger.Info().Str("shop", shop).Str("sessionId", session.ID).Msg("App installed")

	params := url.Values{}
	params.Set("shop", shop)
	params.Set("session", session.ID)
	if host := q.Get("host"); host != "" {
		params.Set("host", host)
	}
	http.Redirect(w, r, "/?"+params.Encode(), http.StatusFound)
}

// Verify handles GET /auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Session ID required")
		return
	}

	session, err := h.sessions.GetByID(r.Context(), sessionID)
	if errors.Is(err, domain.ErrInvalidCredential) {
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid session")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Session verification failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid": true,
		"shop":  session.Shop,
	})
}

func newStateToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
