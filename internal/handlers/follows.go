package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/itu-devops/minitwit/internal/metrics"
	"github.com/itu-devops/minitwit/internal/repo"
)

// ==========================
// FollowHandler
// ==========================
type FollowHandler struct {
	Follows *repo.FollowRepo
	Users   *repo.UserRepo
}

// ==========================
// Get Follows: usernames the subject follows
// ==========================
func (h *FollowHandler) GetFollows(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.Users.GetByUsername(r.Context(), username)
	if errors.Is(err, sql.ErrNoRows) {
		JSONError(w, "Cannot find user", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	following, err := h.Follows.Following(r.Context(), user.ID, messageCount(r))
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	names := make([]string, 0, len(following))
	for _, u := range following {
		names = append(names, u.Username)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"follows": names})
}

// ==========================
// Post Follows: {"follow": name} adds an edge, {"unfollow": name} removes it
// ==========================
func (h *FollowHandler) PostFollows(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.Users.GetByUsername(r.Context(), username)
	if errors.Is(err, sql.ErrNoRows) {
		JSONError(w, "Cannot find user", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	var input struct {
		Follow   string `json:"follow"`
		Unfollow string `json:"unfollow"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	switch {
	case input.Follow != "":
		target, err := h.Users.GetByUsername(r.Context(), input.Follow)
		if err != nil {
			break // unusable field, falls through to 400
		}
		if err := h.Follows.Follow(r.Context(), user.ID, target.ID); err != nil {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		metrics.FollowEvents.WithLabelValues("follow").Inc()
		w.WriteHeader(http.StatusNoContent)
		return

	case input.Unfollow != "":
		target, err := h.Users.GetByUsername(r.Context(), input.Unfollow)
		if err != nil {
			break
		}
		if err := h.Follows.Unfollow(r.Context(), user.ID, target.ID); err != nil {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		metrics.FollowEvents.WithLabelValues("unfollow").Inc()
		w.WriteHeader(http.StatusNoContent)
		return
	}

	JSONError(w, "follow or unfollow required", http.StatusBadRequest)
}
