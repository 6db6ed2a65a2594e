package application

import (
	"context"
	"fmt"

	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/ports"

	"github.com/rs/zerolog"
)

// ScopeService manages the per-session data scope toggles.
type ScopeService struct {
	scopes ports.ScopeRepository
	logger zerolog.Logger
}

// NewScopeService creates a new scope service
func NewScopeService(scopes ports.ScopeRepository, logger zerolog.Logger) *ScopeService {
	return &ScopeService{
		scopes: scopes,
		logger: logger,
	}
}

// ScopeUpdate is one entry of a PUT /api/scopes payload.
type ScopeUpdate struct {
	ScopeName domain.ScopeName `json:"scopeName"`
	Enabled   bool             `json:"enabled"`
}

// List returns all scope rows for the session.
func (s *ScopeService) List(ctx context.Context, sessionID string) ([]*domain.DataScope, error) {
	scopes, err := s.scopes.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scopes: %w", err)
	}
	return scopes, nil
}

// Update upserts each toggle and returns the full updated set. Applying the
// same payload twice yields the same stored state.
func (s *ScopeService) Update(ctx context.Context, sessionID string, updates []ScopeUpdate) ([]*domain.DataScope, error) {
	for _, update := range updates {
		if !domain.IsValidScopeName(update.ScopeName) {
			return nil, fmt.Errorf("%w: unknown scope %q", domain.ErrValidation, update.ScopeName)
		}
	}

	for _, update := range updates {
		if err := s.scopes.Upsert(ctx, sessionID, update.ScopeName, update.Enabled); err != nil {
			return nil, fmt.Errorf("failed to update scope %s: %w", update.ScopeName, err)
		}
	}

	s.logger.Info().
		Str("sessionId", sessionID).
		Int("updates", len(updates)).
		Msg("Data scopes updated")

	return s.List(ctx, sessionID)
}

// IsEnabled reports whether the named scope is enabled for the session.
// A missing row reads as disabled.
func (s *ScopeService) IsEnabled(ctx context.Context, sessionID string, name domain.ScopeName) (bool, error) {
	scope, err := s.scopes.Get(ctx, sessionID, name)
	if err != nil {
		return false, fmt.Errorf("failed to check scope: %w", err)
	}
	return scope != nil && scope.Enabled, nil
}

// DisableAll turns every scope off for the session. Used when the app is
// uninstalled; the session row itself is kept.
func (s *ScopeService) DisableAll(ctx context.Context, sessionID string) error {
	for _, name := range domain.AllScopeNames() {
		if err := s.scopes.Upsert(ctx, sessionID, name, false); err != nil {
			return fmt.Errorf("failed to disable scope %s: %w", name, err)
		}
	}
	return nil
}
