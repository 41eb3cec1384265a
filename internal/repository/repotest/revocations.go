package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/recipe-service/internal/repository"
)

// RevocationRepository is an in-memory blacklist that honours entry TTLs
// against an injectable clock.
type RevocationRepository struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]time.Time
	calls   int

	// Err, when set, is returned by every call.
	Err error
}

var _ repository.RevocationRepository = (*RevocationRepository)(nil)

// NewRevocationRepository uses now for expiry. A nil now uses time.Now.
func NewRevocationRepository(now func() time.Time) *RevocationRepository {
	if now == nil {
		now = time.Now
	}
	return &RevocationRepository{now: now, entries: make(map[string]time.Time)}
}

func (r *RevocationRepository) Revoke(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.Err != nil {
		return false, r.Err
	}
	if ttl <= 0 {
		return false, nil
	}
	if r.liveLocked(jti) {
		return false, nil
	}
	r.entries[jti] = r.now().Add(ttl)
	return true, nil
}

func (r *RevocationRepository) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.Err != nil {
		return false, r.Err
	}
	return r.liveLocked(jti), nil
}

// Calls counts every Revoke and IsRevoked invocation.
func (r *RevocationRepository) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// TTL reports the remaining lifetime of an entry, zero when absent.
func (r *RevocationRepository) TTL(jti string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.liveLocked(jti) {
		return 0
	}
	return r.entries[jti].Sub(r.now())
}

func (r *RevocationRepository) liveLocked(jti string) bool {
	exp, ok := r.entries[jti]
	return ok && r.now().Before(exp)
}
