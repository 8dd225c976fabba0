package main

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/itu-devops/minitwit/internal/auth"
	"github.com/itu-devops/minitwit/internal/metrics"
	"github.com/itu-devops/minitwit/internal/models"
)

// currentUser resolves the session identity once per request. A stale session
// pointing at a deleted row counts as anonymous.
func (app *webApp) currentUser(r *http.Request) *models.User {
	session, _ := app.store.Get(r, sessionName)
	rawID, ok := session.Values["user_id"]
	if !ok {
		return nil
	}
	id, ok := rawID.(int)
	if !ok {
		return nil
	}
	user, err := app.users.GetByID(r.Context(), id)
	if err != nil {
		return nil
	}
	return &user
}

// flash queues a one-shot notice shown on the next rendered page.
func (app *webApp) flash(w http.ResponseWriter, r *http.Request, message string) {
	session, _ := app.store.Get(r, sessionName)
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		slog.Error("save session", "error", err)
	}
}

// popFlashes drains queued flash messages.
func (app *webApp) popFlashes(w http.ResponseWriter, r *http.Request) []string {
	session, _ := app.store.Get(r, sessionName)
	raw := session.Flashes()
	if len(raw) > 0 {
		if err := session.Save(r, w); err != nil {
			slog.Error("save session", "error", err)
		}
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ==========================
// Timelines
// ==========================

func (app *webApp) timeline(w http.ResponseWriter, r *http.Request) {
	user := app.currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/public", http.StatusFound)
		return
	}

	entries, err := app.messages.ListTimeline(r.Context(), user.ID, app.cfg.PerPage)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	renderTemplate(w, "timeline.html", pageData{
		Title:    "My Timeline",
		User:     user,
		Messages: entries,
		Flashes:  app.popFlashes(w, r),
	})
}

func (app *webApp) publicTimeline(w http.ResponseWriter, r *http.Request) {
	entries, err := app.messages.ListPublic(r.Context(), app.cfg.PerPage)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	renderTemplate(w, "timeline.html", pageData{
		Title:    "Public Timeline",
		User:     app.currentUser(r),
		Messages: entries,
		Flashes:  app.popFlashes(w, r),
	})
}

func (app *webApp) userTimeline(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := app.users.GetByUsername(r.Context(), username)
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	user := app.currentUser(r)
	followed := false
	if user != nil {
		followed, err = app.follows.IsFollowing(r.Context(), user.ID, profile.ID)
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	entries, err := app.messages.ListByUser(r.Context(), profile.ID, app.cfg.PerPage)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	renderTemplate(w, "timeline.html", pageData{
		Title:       profile.Username + "'s Timeline",
		User:        user,
		ProfileUser: &profile,
		Followed:    followed,
		Messages:    entries,
		Flashes:     app.popFlashes(w, r),
	})
}

// ==========================
// Follow graph
// ==========================

func (app *webApp) followUser(w http.ResponseWriter, r *http.Request) {
	user := app.currentUser(r)
	if user == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	username := chi.URLParam(r, "username")
	target, err := app.users.GetByUsername(r.Context(), username)
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := app.follows.Follow(r.Context(), user.ID, target.ID); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	metrics.FollowEvents.WithLabelValues("follow").Inc()
	app.flash(w, r, "You are now following "+username)
	http.Redirect(w, r, "/"+username, http.StatusFound)
}

func (app *webApp) unfollowUser(w http.ResponseWriter, r *http.Request) {
	user := app.currentUser(r)
	if user == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	username := chi.URLParam(r, "username")
	target, err := app.users.GetByUsername(r.Context(), username)
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := app.follows.Unfollow(r.Context(), user.ID, target.ID); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	metrics.FollowEvents.WithLabelValues("unfollow").Inc()
	app.flash(w, r, "You are no longer following "+username)
	http.Redirect(w, r, "/"+username, http.StatusFound)
}

// ==========================
// Messages
// ==========================

func (app *webApp) addMessage(w http.ResponseWriter, r *http.Request) {
	user := app.currentUser(r)
	if user == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	text := strings.TrimSpace(r.FormValue("text"))
	if text != "" {
		if _, err := app.messages.Create(r.Context(), user.ID, text, time.Now().UTC()); err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		metrics.MessagesPosted.Inc()
		app.flash(w, r, "Your message was recorded")
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// ==========================
// Login / Register / Logout
// ==========================

func (app *webApp) loginForm(w http.ResponseWriter, r *http.Request) {
	if app.currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	renderTemplate(w, "login.html", pageData{
		Title:   "Sign In",
		Flashes: app.popFlashes(w, r),
	})
}

func (app *webApp) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	userID, err := app.auth.Login(r.Context(), username, r.FormValue("password"))
	if err != nil {
		var authErr *auth.AuthError
		if errors.As(err, &authErr) {
			renderTemplate(w, "login.html", pageData{
				Title:        "Sign In",
				Error:        authErr.Message,
				FormUsername: username,
			})
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	session, _ := app.store.Get(r, sessionName)
	session.Values["user_id"] = userID
	session.AddFlash("You were logged in")
	if err := session.Save(r, w); err != nil {
		slog.Error("save session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (app *webApp) registerForm(w http.ResponseWriter, r *http.Request) {
	if app.currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	renderTemplate(w, "register.html", pageData{
		Title:   "Sign Up",
		Flashes: app.popFlashes(w, r),
	})
}

func (app *webApp) registerSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")

	_, err := app.auth.RegisterForm(r.Context(),
		username, email, r.FormValue("password"), r.FormValue("password2"))
	if err != nil {
		var vErr *auth.ValidationError
		if errors.As(err, &vErr) {
			renderTemplate(w, "register.html", pageData{
				Title:        "Sign Up",
				Error:        vErr.Message,
				FormUsername: username,
				FormEmail:    email,
			})
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	metrics.UsersRegistered.Inc()
	app.flash(w, r, "You were successfully registered and can login now")
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (app *webApp) logout(w http.ResponseWriter, r *http.Request) {
	session, _ := app.store.Get(r, sessionName)
	delete(session.Values, "user_id")
	session.AddFlash("You were logged out")
	if err := session.Save(r, w); err != nil {
		slog.Error("save session", "error", err)
	}
	http.Redirect(w, r, "/public", http.StatusFound)
}
