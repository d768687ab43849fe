package store

import (
	"context"
	"errors"

	"fiscalchat-backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// AppendMessageParams contains parameters for appending a message to a session.
type AppendMessageParams struct {
	ID        uuid.UUID
	SessionID string
	Role      string // "user" or "assistant"
	Content   string
}

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
type Store interface {
	// AppendMessage inserts a new message and returns the stored row,
	// including the store-assigned creation timestamp.
	AppendMessage(ctx context.Context, arg AppendMessageParams) (*models.Message, error)

	// ListMessagesBySession returns every message for the session in
	// insertion order. An unknown session yields an empty slice, not an error.
	ListMessagesBySession(ctx context.Context, sessionID string) ([]models.Message, error)
}
