// Package memory provides in-memory implementations of the persistence
// ports. They back the test suites and local development without a MongoDB
// instance; semantics mirror the Mongo repositories, including upsert
// behavior and uniqueness constraints.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"merchant-data-gateway/internal/domain"

	"github.com/google/uuid"
)

// SessionStore is an in-memory SessionRepository
type SessionStore struct {
	mu       sync.RWMutex
	byID     map[string]*domain.MerchantSession
	idByShop map[string]string
}

// NewSessionStore creates an empty in-memory session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		byID:     make(map[string]*domain.MerchantSession),
		idByShop: make(map[string]string),
	}
}

func (s *SessionStore) UpsertByShop(ctx context.Context, session *domain.MerchantSession) (*domain.MerchantSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if id, ok := s.idByShop[session.Shop]; ok {
		existing := s.byID[id]
		existing.AccessToken = session.AccessToken
		existing.Scope = session.Scope
		existing.IsOnline = session.IsOnline
		existing.UpdatedAt = now
		copy := *existing
		return &copy, nil
	}

	stored := &domain.MerchantSession{
		ID:          uuid.NewString(),
		Shop:        session.Shop,
		AccessToken: session.AccessToken,
		Scope:       session.Scope,
		IsOnline:    session.IsOnline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.byID[stored.ID] = stored
	s.idByShop[stored.Shop] = stored.ID
	copy := *stored
	return &copy, nil
}

func (s *SessionStore) GetByShop(ctx context.Context, shop string) (*domain.MerchantSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idByShop[shop]
	if !ok {
		return nil, nil
	}
	copy := *s.byID[id]
	return &copy, nil
}

func (s *SessionStore) GetByID(ctx context.Context, id string) (*domain.MerchantSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	copy := *session
	return &copy, nil
}

// ScopeStore is an in-memory ScopeRepository
type ScopeStore struct {
	mu     sync.RWMutex
	scopes map[string]*domain.DataScope // keyed by sessionID + "/" + scopeName
}

// NewScopeStore creates an empty in-memory scope store
func NewScopeStore() *ScopeStore {
	return &ScopeStore{scopes: make(map[string]*domain.DataScope)}
}

func scopeKey(sessionID string, name domain.ScopeName) string {
	return sessionID + "/" + string(name)
}

func (s *ScopeStore) EnsureDefaults(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, name := range domain.AllScopeNames() {
		key := scopeKey(sessionID, name)
		if _, ok := s.scopes[key]; ok {
			continue
		}
		s.scopes[key] = &domain.DataScope{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			ScopeName: name,
			Enabled:   false,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return nil
}

func (s *ScopeStore) ListBySession(ctx context.Context, sessionID string) ([]*domain.DataScope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.DataScope
	for _, scope := range s.scopes {
		if scope.SessionID == sessionID {
			copy := *scope
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScopeName < out[j].ScopeName })
	return out, nil
}

func (s *ScopeStore) Get(ctx context.Context, sessionID string, name domain.ScopeName) (*domain.DataScope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scope, ok := s.scopes[scopeKey(sessionID, name)]
	if !ok {
		return nil, nil
	}
	copy := *scope
	return &copy, nil
}

func (s *ScopeStore) Upsert(ctx context.Context, sessionID string, name domain.ScopeName, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	key := scopeKey(sessionID, name)
	if scope, ok := s.scopes[key]; ok {
		scope.Enabled = enabled
		scope.UpdatedAt = now
		return nil
	}
	s.scopes[key] = &domain.DataScope{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		ScopeName: name,
		Enabled:   enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

// APIKeyStore is an in-memory APIKeyRepository
type APIKeyStore struct {
	mu       sync.RWMutex
	byID     map[string]*domain.APIKey
	idByHash map[string]string
}

// NewAPIKeyStore creates an empty in-memory API key store
func NewAPIKeyStore() *APIKeyStore {
	return &APIKeyStore{
		byID:     make(map[string]*domain.APIKey),
		idByHash: make(map[string]string),
	}
}

func (s *APIKeyStore) Insert(ctx context.Context, key *domain.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.idByHash[key.KeyHash]; ok {
		return fmt.Errorf("duplicate key hash")
	}
	stored := *key
	stored.Key = "" // plaintext never persists
	s.byID[stored.ID] = &stored
	s.idByHash[stored.KeyHash] = stored.ID
	return nil
}

func (s *APIKeyStore) ListBySession(ctx context.Context, sessionID string) ([]*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.APIKey
	for _, key := range s.byID {
		if key.SessionID == sessionID {
			copy := *key
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *APIKeyStore) GetByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idByHash[keyHash]
	if !ok {
		return nil, nil
	}
	copy := *s.byID[id]
	return &copy, nil
}

func (s *APIKeyStore) GetByID(ctx context.Context, id string) (*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	copy := *key
	return &copy, nil
}

func (s *APIKeyStore) Deactivate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key, ok := s.byID[id]; ok {
		key.IsActive = false
	}
	return nil
}

func (s *APIKeyStore) DeactivateBySession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range s.byID {
		if key.SessionID == sessionID {
			key.IsActive = false
		}
	}
	return nil
}

func (s *APIKeyStore) TouchLastUsed(ctx context.Context, id string, usedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key, ok := s.byID[id]; ok {
		t := usedAt
		key.LastUsedAt = &t
	}
	return nil
}

// UsageLogStore is an in-memory UsageLogRepository
type UsageLogStore struct {
	mu   sync.RWMutex
	logs []*domain.UsageLog
}

// NewUsageLogStore creates an empty in-memory usage log store
func NewUsageLogStore() *UsageLogStore {
	return &UsageLogStore{}
}

func (s *UsageLogStore) Insert(ctx context.Context, log *domain.UsageLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *log
	s.logs = append(s.logs, &copy)
	return nil
}

// Entries returns a snapshot of all recorded usage logs.
func (s *UsageLogStore) Entries() []*domain.UsageLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.UsageLog, len(s.logs))
	for i, log := range s.logs {
		copy := *log
		out[i] = &copy
	}
	return out
}

// AuthStateStore is an in-memory AuthStateRepository
type AuthStateStore struct {
	mu     sync.Mutex
	states map[string]*domain.AuthState
}

// NewAuthStateStore creates an empty in-memory auth state store
func NewAuthStateStore() *AuthStateStore {
	return &AuthStateStore{states: make(map[string]*domain.AuthState)}
}

func (s *AuthStateStore) Save(ctx context.Context, state *domain.AuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now()
	}
	copy := *state
	s.states[state.State] = &copy
	return nil
}

func (s *AuthStateStore) Consume(ctx context.Context, state string) (*domain.AuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.states[state]
	if !ok {
		return nil, nil
	}
	delete(s.states, state)
	if time.Now().After(stored.ExpiresAt) {
		return nil, nil
	}
	copy := *stored
	return &copy, nil
}
