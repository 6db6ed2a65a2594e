package domain

import "time"

// ScopeName identifies one of the three proxied resource kinds.
type ScopeName string

const (
	ScopeOrders    ScopeName = "orders"
	ScopeCustomers ScopeName = "customers"
	ScopeInventory ScopeName = "inventory"
)

// AllScopeNames returns the closed set of data scope names.
func AllScopeNames() []ScopeName {
	return []ScopeName{ScopeOrders, ScopeCustomers, ScopeInventory}
}

// IsValidScopeName reports whether name is one of the known scopes.
func IsValidScopeName(name ScopeName) bool {
	switch name {
	case ScopeOrders, ScopeCustomers, ScopeInventory:
		return true
	}
	return false
}

// DataScope is a per-session toggle controlling whether a resource kind may
// be proxied. At most one row exists per (session, scope name) pair; a
// missing row reads as disabled.
type DataScope struct {
	ID        string    `json:"id" bson:"_id"`
	SessionID string    `json:"session_id" bson:"sessionId"`
	ScopeName ScopeName `json:"scopeName" bson:"scopeName"`
	Enabled   bool      `json:"enabled" bson:"enabled"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}
