package models

import (
	"time"

	"github.com/google/uuid"
)

// Message represents a single conversational turn stored in the 'messages' table.
// Messages are append-only: never updated or deleted by the application. A
// session has no record of its own; it exists only as the shared SessionID.
type Message struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
