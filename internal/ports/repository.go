package ports

import (
	"context"
	"time"

	"merchant-data-gateway/internal/domain"
)

// SessionRepository defines the interface for merchant session persistence
type SessionRepository interface {
	// UpsertByShop saves the session keyed by shop domain. A re-install
	// overwrites token, scope and online flag but keeps the original id.
	// Returns the stored session.
	UpsertByShop(ctx context.Context, session *domain.MerchantSession) (*domain.MerchantSession, error)

	// GetByShop retrieves a session by shop domain. Returns nil when absent.
	GetByShop(ctx context.Context, shop string) (*domain.MerchantSession, error)

	// GetByID retrieves a session by id. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*domain.MerchantSession, error)
}

// ScopeRepository defines the interface for data scope persistence
type ScopeRepository interface {
	// EnsureDefaults creates any missing scope rows for the session, all
	// disabled. Existing rows are left untouched.
	EnsureDefaults(ctx context.Context, sessionID string) error

	// ListBySession returns all scope rows for the session.
	ListBySession(ctx context.Context, sessionID string) ([]*domain.DataScope, error)

	// Get retrieves one scope row. Returns nil when absent.
	Get(ctx context.Context, sessionID string, name domain.ScopeName) (*domain.DataScope, error)

	// Upsert sets the enabled flag for one (session, scope name) pair,
	// creating the row if needed.
	Upsert(ctx context.Context, sessionID string, name domain.ScopeName, enabled bool) error
}

// APIKeyRepository defines the interface for API key persistence
type APIKeyRepository interface {
	// Insert stores a newly issued key.
	Insert(ctx context.Context, key *domain.APIKey) error

	// ListBySession returns all keys for the session, revoked ones included.
	ListBySession(ctx context.Context, sessionID string) ([]*domain.APIKey, error)

	// GetByHash retrieves a key by its secret hash. Returns nil when absent.
	GetByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)

	// GetByID retrieves a key by id. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*domain.APIKey, error)

	// Deactivate marks a key inactive. Idempotent.
	Deactivate(ctx context.Context, id string) error

	// DeactivateBySession marks every key of the session inactive.
	DeactivateBySession(ctx context.Context, sessionID string) error

	// TouchLastUsed records when the key was last resolved. Best-effort.
	TouchLastUsed(ctx context.Context, id string, usedAt time.Time) error
}

// UsageLogRepository defines the interface for usage log persistence
type UsageLogRepository interface {
	// Insert appends one usage record. Records are never updated or deleted.
	Insert(ctx context.Context, log *domain.UsageLog) error
}

// AuthStateRepository defines the interface for OAuth state persistence
type AuthStateRepository interface {
	// Save stores a pending OAuth state.
	Save(ctx context.Context, state *domain.AuthState) error

	// Consume retrieves and deletes a state in one step. Returns nil when
	// absent or already consumed.
	Consume(ctx context.Context, state string) (*domain.AuthState, error)
}
