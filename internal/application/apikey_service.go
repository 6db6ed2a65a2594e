package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// keySecretPrefix marks gateway-issued secrets so they are recognizable
	// in logs and support tickets without being guessable.
	keySecretPrefix = "sdk_"

	// keySecretBytes is the random payload size: 16 bytes = 128 bits.
	keySecretBytes = 16

	// keyDisplayLength is how much of the secret the listing shows.
	keyDisplayLength = 12

	touchTimeout = 5 * time.Second
)

// APIKeyService manages the lifecycle of API keys: issue, list, revoke, and
// resolution on the public data path.
type APIKeyService struct {
	keys   ports.APIKeyRepository
	logger zerolog.Logger
}

// NewAPIKeyService creates a new API key service
func NewAPIKeyService(keys ports.APIKeyRepository, logger zerolog.Logger) *APIKeyService {
	return &APIKeyService{
		keys:   keys,
		logger: logger,
	}
}

// Issue creates a new active key for the session. The returned record is
// the only place the plaintext secret ever appears; the store keeps a
// SHA-256 hash and a display prefix.
func (s *APIKeyService) Issue(ctx context.Context, sessionID string, name string) (*domain.APIKey, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: key name required", domain.ErrValidation)
	}

	secretBytes := make([]byte, keySecretBytes)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, fmt.Errorf("failed to generate key secret: %w", err)
	}
	secret := keySecretPrefix + hex.EncodeToString(secretBytes)

	key := &domain.APIKey{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Name:      name,
		Key:       secret,
		KeyPrefix: secret[:keyDisplayLength] + "...",
		KeyHash:   hashSecret(secret),
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	if err := s.keys.Insert(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to create API key: %w", err)
	}

	s.logger.Info().
		Str("sessionId", sessionID).
		Str("keyId", key.ID).
		Str("name", name).
		Msg("API key issued")

	return key, nil
}

// List returns all keys for the session. Secrets are masked: only the
// display prefix survives past issuance.
func (s *APIKeyService) List(ctx context.Context, sessionID string) ([]*domain.APIKey, error) {
	keys, err := s.keys.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	return keys, nil
}

// Revoke deactivates a key owned by the session. A key owned by a different
// session reports ErrNotFound so existence is not leaked. Revoking an
// already-revoked key succeeds silently.
func (s *APIKeyService) Revoke(ctx context.Context, sessionID string, keyID string) error {
	key, err := s.keys.GetByID(ctx, keyID)
	if err != nil {
		return fmt.Errorf("failed to look up API key: %w", err)
	}
	if key == nil || key.SessionID != sessionID {
		return domain.ErrNotFound
	}
	if !key.IsActive {
		return nil
	}

	if err := s.keys.Deactivate(ctx, keyID); err != nil {
		return fmt.Errorf("failed to revoke API key: %w", err)
	}

	s.logger.Info().
		Str("sessionId", sessionID).
		Str("keyId", keyID).
		Msg("API key revoked")

	return nil
}

// RevokeAllForSession deactivates every key of the session. Used when the
// app is uninstalled.
func (s *APIKeyService) RevokeAllForSession(ctx context.Context, sessionID string) error {
	if err := s.keys.DeactivateBySession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to revoke session keys: %w", err)
	}
	return nil
}

// Resolve looks up an active key by its plaintext secret and bumps the
// last-used timestamp in the background. The bump never delays the request
// and a lost update is acceptable.
func (s *APIKeyService) Resolve(ctx context.Context, secret string) (*domain.APIKey, error) {
	key, err := s.keys.GetByHash(ctx, hashSecret(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to look up API key: %w", err)
	}
	if key == nil || !key.IsActive {
		return nil, domain.ErrInvalidCredential
	}

	go func(keyID string) {
		touchCtx, cancel := context.WithTimeout(context.Background(), touchTimeout)
		defer cancel()
		if err := s.keys.TouchLastUsed(touchCtx, keyID, time.Now()); err != nil {
			s.logger.Warn().Err(err).Str("keyId", keyID).Msg("Failed to bump API key last-used timestamp")
		}
	}(key.ID)

	return key, nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
