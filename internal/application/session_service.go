package application

import (
	"context"
	"fmt"

	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/ports"

	"github.com/rs/zerolog"
)

// SessionService resolves and installs merchant sessions.
// It depends on ports (interfaces) not concrete implementations.
type SessionService struct {
	sessions ports.SessionRepository
	scopes   ports.ScopeRepository
	logger   zerolog.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	sessions ports.SessionRepository,
	scopes ports.ScopeRepository,
	logger zerolog.Logger,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		scopes:   scopes,
		logger:   logger,
	}
}

// Install upserts the merchant session for a completed grant and seeds the
// three data scopes, all disabled. Existing scope rows keep their state on
// re-install.
func (s *SessionService) Install(ctx context.Context, grant *domain.Grant) (*domain.MerchantSession, error) {
	if grant == nil || grant.Shop == "" || grant.AccessToken == "" {
		return nil, fmt.Errorf("%w: grant is missing shop or access token", domain.ErrValidation)
	}

	session, err := s.sessions.UpsertByShop(ctx, &domain.MerchantSession{
		Shop:        grant.Shop,
		AccessToken: grant.AccessToken,
		Scope:       grant.Scope,
		IsOnline:    grant.IsOnline,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if err := s.scopes.EnsureDefaults(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to initialize data scopes: %w", err)
	}

	s.logger.Info().
		Str("shop", session.Shop).
		Str("sessionId", session.ID).
		Msg("Merchant session installed")

	return session, nil
}

// GetByShop resolves a session by shop domain. A missing session is
// reported as ErrSessionNotFound: the shop holds a valid platform token but
// the local record is gone, so a reinstall is required.
func (s *SessionService) GetByShop(ctx context.Context, shop string) (*domain.MerchantSession, error) {
	session, err := s.sessions.GetByShop(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session by shop: %w", err)
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// GetByID resolves a session by its opaque id.
func (s *SessionService) GetByID(ctx context.Context, id string) (*domain.MerchantSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session by id: %w", err)
	}
	if session == nil {
		return nil, domain.ErrInvalidCredential
	}
	return session, nil
}
