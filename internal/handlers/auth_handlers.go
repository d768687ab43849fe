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

// AuthHandler handles the password-gate endpoint.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// HandleValidatePassword handles POST /api/auth/validate. A correct password
// yields an opaque bearer token for subsequent chat calls.
func (h *AuthHandler) HandleValidatePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ValidatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Password) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Password is required")
		return
	}

	token, err := h.authService.ValidatePassword(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPassword) {
			httputil.RespondError(w, http.StatusUnauthorized, "Invalid password")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to validate password")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.ValidatePasswordResponse{AuthToken: token})
}
