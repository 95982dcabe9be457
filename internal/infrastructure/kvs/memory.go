package kvs

import (
	"context"
	"sync"
	"time"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/auth"
	"lendhub/internal/domain/health"
)

// Compile-time checks.
var (
	_ auth.Repository = (*MemoryTokenRepo)(nil)
	_ health.Pinger   = (*MemoryTokenRepo)(nil)
)

type memoryEntry struct {
	userID    id.ID
	expiresAt time.Time
}

// MemoryTokenRepo is an in-process token store for development and tests.
// Expired entries are evicted lazily on lookup.
type MemoryTokenRepo struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryTokenRepo creates an in-memory token store with the given TTL.
func NewMemoryTokenRepo(ttl time.Duration) *MemoryTokenRepo {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &MemoryTokenRepo{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// CreateToken issues a fresh token mapped to the user for the configured TTL.
func (r *MemoryTokenRepo) CreateToken(_ context.Context, userID id.ID) (auth.AccessToken, error) {
	token, err := newToken()
	if err != nil {
		return "", apperror.NewInternal(err)
	}

	r.mu.Lock()
	r.entries[tokenKey(token)] = memoryEntry{
		userID:    userID,
		expiresAt: r.now().Add(r.ttl),
	}
	r.mu.Unlock()

	return token, nil
}

// DeleteToken revokes a token. Deleting an absent token is not an error.
func (r *MemoryTokenRepo) DeleteToken(_ context.Context, token auth.AccessToken) error {
	r.mu.Lock()
	delete(r.entries, tokenKey(token))
	r.mu.Unlock()
	return nil
}

// FetchUserIDFromToken resolves a token to its user. The second return value
// is false when the token is unknown or expired.
func (r *MemoryTokenRepo) FetchUserIDFromToken(_ context.Context, token auth.AccessToken) (id.ID, bool, error) {
	key := tokenKey(token)

	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()

	if !ok {
		return id.Nil(), false, nil
	}
	if r.now().After(entry.expiresAt) {
		r.mu.Lock()
		// Re-check under the write lock; the entry may have been replaced.
		if cur, ok := r.entries[key]; ok && r.now().After(cur.expiresAt) {
			delete(r.entries, key)
		}
		r.mu.Unlock()
		return id.Nil(), false, nil
	}

	return entry.userID, true, nil
}

// Ping always succeeds; the store lives in process memory.
func (r *MemoryTokenRepo) Ping(context.Context) error {
	return nil
}

// Len reports the number of stored tokens, expired entries included.
func (r *MemoryTokenRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
