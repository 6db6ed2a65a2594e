package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"merchant-data-gateway/internal/application"
	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/infrastructure/middleware"
	"merchant-data-gateway/internal/infrastructure/shopify"

	"github.com/rs/zerolog"
)

// WebhookHandler receives platform webhook deliveries. Uninstall events
// tear down the merchant's exposure: all scopes disabled, all keys revoked.
// The session row stays so a reinstall reuses it.
type WebhookHandler struct {
	verifier *shopify.WebhookVerifier
	sessions *application.SessionService
	scopes   *application.ScopeService
	keys     *application.APIKeyService
	logger   zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(verifier *shopify.WebhookVerifier, sessions *application.SessionService, scopes *application.ScopeService, keys *application.APIKeyService, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier: verifier,
		sessions: sessions,
		scopes:   scopes,
		keys:     keys,
		logger:   logger,
	}
}

// Handle handles POST /webhooks/shopify
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read payload")
		return
	}

	if err := h.verifier.Verify(payload, r.Header.Get("X-Shopify-Hmac-SHA256")); err != nil {
		h.logger.Warn().Err(err).Msg("Webhook signature rejected")
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	topic := r.Header.Get("X-Shopify-Topic")
	shop := r.Header.Get("X-Shopify-Shop-Domain")
	if shop == "" {
		var body struct {
			Domain     string `json:"domain"`
			ShopDomain string `json:"shop_domain"`
		}
		if err := json.Unmarshal(payload, &body); err == nil {
			shop = body.Domain
			if shop == "" {
				shop = body.ShopDomain
			}
		}
	}

	h.logger.Info().Str("topic", topic).Str("shop", shop).Msg("Webhook received")

	if topic == "app/uninstalled" && shop != "" {
		if err := h.handleUninstall(r, shop); err != nil {
			h.logger.Error().Err(err).Str("shop", shop).Msg("Uninstall cleanup failed")
			middleware.WriteError(w, http.StatusInternalServerError, "Webhook processing failed")
			return
		}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"received": "true"})
}

func (h *WebhookHandler) handleUninstall(r *http.Request, shop string) error {
	session, err := h.sessions.GetByShop(r.Context(), shop)
	if errors.Is(err, domain.ErrSessionNotFound) {
		// Nothing installed for this shop, nothing to clean up.
		return nil
	}
	if err != nil {
		return err
	}

	if err := h.scopes.DisableAll(r.Context(), session.ID); err != nil {
		return err
	}
	if err := h.keys.RevokeAllForSession(r.Context(), session.ID); err != nil {
		return err
	}

	h.logger.Info().Str("shop", shop).Str("sessionId", session.ID).Msg("Uninstall cleanup complete")
	return nil
}
