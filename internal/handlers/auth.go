package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/itu-devops/minitwit/internal/auth"
	"github.com/itu-devops/minitwit/internal/metrics"
)

// ==========================
// AuthHandler
// ==========================
type AuthHandler struct {
	Auth *auth.Service
}

// ==========================
// Register (simulator variant: no password confirmation)
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Pwd      string `json:"pwd"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	_, err := h.Auth.Register(r.Context(), input.Username, input.Email, input.Pwd)
	if err != nil {
		var vErr *auth.ValidationError
		if errors.As(err, &vErr) {
			JSONError(w, vErr.Message, http.StatusBadRequest)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.UsersRegistered.Inc()
	w.WriteHeader(http.StatusNoContent)
}
