package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"fiscalchat-backend/internal/models"
	"fiscalchat-backend/internal/services"
	"fiscalchat-backend/pkg/httputil"
)

// ChatHandler handles the chat endpoints.
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new ChatHandler instance.
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// HandleChat handles POST /api/chat: validates the turn input, then delegates
// the full turn to the chat service. Provider failures never surface here;
// only malformed input or a storage failure produce a non-200.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.Role != models.RoleUser {
		httputil.RespondError(w, http.StatusBadRequest, `role must be "user"`)
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	resp, err := h.chatService.HandleTurn(r.Context(), req.SessionID, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleListMessages handles GET /api/messages?sessionId=...
func (h *ChatHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if strings.TrimSpace(sessionID) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "sessionId query parameter is required")
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), sessionID)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messages)
}
