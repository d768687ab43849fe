package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TokenStore holds the opaque bearer tokens issued by the password gate,
// mapped to their issuance time. Tokens live in process memory only; a
// restart invalidates all of them. A zero TTL disables expiry.
type TokenStore struct {
	mu     sync.RWMutex
	ttl    time.Duration
	tokens map[string]time.Time
	now    func() time.Time
}

// NewTokenStore creates a TokenStore with the given TTL (0 = tokens never expire).
func NewTokenStore(ttl time.Duration) *TokenStore {
	return &TokenStore{
		ttl:    ttl,
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Issue creates and records a new opaque token.
func (s *TokenStore) Issue() string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = s.now()
	s.mu.Unlock()
	return token
}

// Validate reports whether the token was issued by this store and has not
// expired. Expired tokens are evicted on the spot.
func (s *TokenStore) Validate(token string) bool {
	s.mu.RLock()
	issuedAt, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if s.ttl > 0 && s.now().Sub(issuedAt) > s.ttl {
		s.mu.Lock()
		delete(s.tokens, token)
		s.mu.Unlock()
		return false
	}
	return true
}
