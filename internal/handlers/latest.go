package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/itu-devops/minitwit/internal/repo"
)

// ==========================
// LatestHandler
// ==========================
type LatestHandler struct {
	Latest *repo.LatestRepo
}

// ==========================
// Get Latest
// ==========================
func (h *LatestHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	value, err := h.Latest.Get(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"latest": value})
}
