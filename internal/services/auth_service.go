package services

import (
	"errors"
	"log"

	"fiscalchat-backend/internal/auth"
)

// ErrInvalidPassword is returned when the supplied app password does not match.
var ErrInvalidPassword = errors.New("invalid password")

// AuthService implements the shared-password gate: one app password, opaque
// bearer tokens recorded in the token store.
type AuthService struct {
	passwordHash string
	tokens       *auth.TokenStore
}

// NewAuthService creates an AuthService validating against the given bcrypt
// hash and issuing tokens from the given store.
func NewAuthService(passwordHash string, tokens *auth.TokenStore) *AuthService {
	return &AuthService{
		passwordHash: passwordHash,
		tokens:       tokens,
	}
}

// ValidatePassword checks the shared secret and issues a new opaque bearer
// token on success.
func (s *AuthService) ValidatePassword(password string) (string, error) {
	if !auth.CheckPasswordHash(password, s.passwordHash) {
		return "", ErrInvalidPassword
	}
	token := s.tokens.Issue()
	log.Println("[AuthService] Issued new session token")
	return token, nil
}
