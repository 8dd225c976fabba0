package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/itu-devops/minitwit/internal/metrics"
	"github.com/itu-devops/minitwit/internal/models"
	"github.com/itu-devops/minitwit/internal/repo"
)

// DefaultMessageCount bounds listings when the "no" query parameter is absent.
const DefaultMessageCount = 100

// ==========================
// MessageHandler
// ==========================
type MessageHandler struct {
	Messages *repo.MessageRepo
	Users    *repo.UserRepo
}

type messageJSON struct {
	Content string    `json:"content"`
	User    string    `json:"user"`
	PubDate time.Time `json:"pub_date"`
}

func toMessageJSON(entries []models.TimelineEntry) []messageJSON {
	// Always a JSON array, never null
	out := make([]messageJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, messageJSON{
			Content: e.Message.Text,
			User:    e.Author.Username,
			PubDate: e.Message.PubDate,
		})
	}
	return out
}

// messageCount reads the "no" query parameter, falling back to DefaultMessageCount.
func messageCount(r *http.Request) int {
	if raw := r.URL.Query().Get("no"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return DefaultMessageCount
}

// ==========================
// List Public Messages
// ==========================
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Messages.ListPublic(r.Context(), messageCount(r))
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toMessageJSON(entries))
}

// ==========================
// List User Messages
// ==========================
func (h *MessageHandler) ListUserMessages(w http.ResponseWriter, r *http.Request) {
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

	entries, err := h.Messages.ListByUser(r.Context(), user.ID, messageCount(r))
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toMessageJSON(entries))
}

// ==========================
// Post Message
// ==========================
func (h *MessageHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
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
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || strings.TrimSpace(input.Content) == "" {
		JSONError(w, "Invalid or missing content", http.StatusBadRequest)
		return
	}

	if _, err := h.Messages.Create(r.Context(), user.ID, input.Content, time.Now().UTC()); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.MessagesPosted.Inc()
	w.WriteHeader(http.StatusNoContent)
}
