package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"merchant-data-gateway/internal/application"
	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/infrastructure/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AdminHandler serves the session-authenticated configuration endpoints:
// data scope toggles and API key management.
type AdminHandler struct {
	scopes *application.ScopeService
	keys   *application.APIKeyService
	appURL string
	logger zerolog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(scopes *application.ScopeService, keys *application.APIKeyService, appURL string, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		scopes: scopes,
		keys:   keys,
		appURL: appURL,
		logger: logger,
	}
}

// GetScopes handles GET /api/scopes
func (h *AdminHandler) GetScopes(w http.ResponseWriter, r *http.Request) {
	session := domain.SessionFromContext(r.Context())

	scopes, err := h.scopes.List(r.Context(), session.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("sessionId", session.ID).Msg("Failed to fetch scopes")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch scopes")
		return
	}
	if scopes == nil {
		scopes = []*domain.DataScope{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"scopes": scopes})
}

// UpdateScopes handles PUT /api/scopes
func (h *AdminHandler) UpdateScopes(w http.ResponseWriter, r *http.Request) {
	session := domain.SessionFromContext(r.Context())

	var body struct {
		Scopes []application.ScopeUpdate `json:"scopes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Scopes == nil {
		middleware.WriteError(w, http.StatusBadRequest, "Scopes must be an array")
		return
	}

	scopes, err := h.scopes.Update(r.Context(), session.ID, body.Scopes)
	if errors.Is(err, domain.ErrValidation) {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid scope name")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("sessionId", session.ID).Msg("Failed to update scopes")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update scopes")
		return
	}
	if scopes == nil {
		scopes = []*domain.DataScope{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"scopes": scopes})
}

// ListKeys handles GET /api/keys
func (h *AdminHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	session := domain.SessionFromContext(r.Context())

	keys, err := h.keys.List(r.Context(), session.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("sessionId", session.ID).Msg("Failed to fetch API keys")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch API keys")
		return
	}
	if keys == nil {
		keys = []*domain.APIKey{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"keys": keys})
}

// CreateKey handles POST /api/keys
func (h *AdminHandler) CreateKey(w http.ResponseWriter, r *http.Request) {
	session := domain.SessionFromContext(r.Context())

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Key name required")
		return
	}

	key, err := h.keys.Issue(r.Context(), session.ID, body.Name)
	if err != nil {
		h.logger.Error().Err(err).Str("sessionId", session.ID).Msg("Failed to create API key")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create API key")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"key": key})
}

// RevokeKey handles DELETE /api/keys/{keyID}
func (h *AdminHandler) RevokeKey(w http.ResponseWriter, r *http.Request) {
	session := domain.SessionFromContext(r.Context())
	keyID := chi.URLParam(r, "keyID")

	err := h.keys.Revoke(r.Context(), session.ID, keyID)
	if errors.Is(err, domain.ErrNotFound) {
		middleware.WriteError(w, http.StatusNotFound, "API key not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("sessionId", session.ID).Str("keyId", keyID).Msg("Failed to revoke API key")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to revoke API key")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetEndpoint handles GET /api/endpoint
func (h *AdminHandler) GetEndpoint(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"endpoints": map[string]string{
			"orders":    h.appURL + "/data/orders",
			"customers": h.appURL + "/data/customers",
			"inventory": h.appURL + "/data/inventory",
		},
		"documentation": h.appURL + "/swagger/index.html",
	})
}
