package models

// --- API Request/Response DTOs ---

// ErrorResponse is the standard JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidatePasswordRequest is the body for POST /api/auth/validate.
type ValidatePasswordRequest struct {
	Password string `json:"password"`
}

// ValidatePasswordResponse carries the opaque bearer token issued on success.
type ValidatePasswordResponse struct {
	AuthToken string `json:"authToken"`
}

// ChatRequest is the body for POST /api/chat.
type ChatRequest struct {
	Content   string `json:"content"`
	Role      string `json:"role"`
	SessionID string `json:"sessionId"`
}

// ChatResponse pairs the persisted user message with the persisted assistant
// reply for one turn. The wire name "aiMessage" matches what the web client
// reads.
type ChatResponse struct {
	UserMessage Message `json:"userMessage"`
	AiMessage   Message `json:"aiMessage"`
}
