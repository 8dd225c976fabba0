package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/itu-devops/minitwit/internal/auth"
	"github.com/itu-devops/minitwit/internal/config"
	"github.com/itu-devops/minitwit/internal/handlers"
	"github.com/itu-devops/minitwit/internal/middleware"
	"github.com/itu-devops/minitwit/internal/repo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter builds the full API router. Tests construct it against a mock DB.
func newRouter(db *sql.DB, cfg config.Config) chi.Router {
	users := repo.NewUserRepo(db)
	messages := repo.NewMessageRepo(db)
	follows := repo.NewFollowRepo(db)
	latest := repo.NewLatestRepo(db)

	authHandler := &handlers.AuthHandler{Auth: auth.NewService(users, auth.BcryptHasher{})}
	messageHandler := &handlers.MessageHandler{Messages: messages, Users: users}
	followHandler := &handlers.FollowHandler{Follows: follows, Users: users}
	latestHandler := &handlers.LatestHandler{Latest: latest}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Operational endpoints, outside the simulator auth gate.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Simulator API. Every route records the "latest" parameter before its
	// main effect so the harness can poll for progress.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SimAuth(cfg.SimAuthToken))
		r.Use(middleware.UpdateLatest(latest))
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

		r.Get("/latest", latestHandler.GetLatest)
		r.Post("/register", authHandler.Register)
		r.Get("/msgs", messageHandler.ListMessages)
		r.Get("/msgs/{username}", messageHandler.ListUserMessages)
		r.Post("/msgs/{username}", messageHandler.PostMessage)
		r.Get("/fllws/{username}", followHandler.GetFollows)
		r.Post("/fllws/{username}", followHandler.PostFollows)
	})

	return r
}
