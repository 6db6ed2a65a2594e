package ratelimit

import (
	"context"
	"sync"
	"time"

	"merchant-data-gateway/internal/ports"
)

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryLimiter is a per-process fixed-window limiter. Counters update in
// O(1) and expired windows are dropped lazily on the next access; there is
// no background sweeper.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int64
	window  time.Duration
}

// NewMemoryLimiter creates an in-process rate limiter allowing limit
// requests per window per key.
func NewMemoryLimiter(limit int64, windowSize time.Duration) ports.RateLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		window:  windowSize,
	}
}

// Allow reports whether the request for key fits in the current window.
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	w, ok := m.windows[key]
	if !ok || now.After(w.resetAt) {
		m.windows[key] = &window{count: 1, resetAt: now.Add(m.window)}
		return true, nil
	}

	if w.count >= m.limit {
		return false, nil
	}
	w.count++
	return true, nil
}
