package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/itu-devops/minitwit/internal/auth"
	"github.com/itu-devops/minitwit/internal/config"
	"github.com/itu-devops/minitwit/internal/db"
	"github.com/itu-devops/minitwit/internal/middleware"
	"github.com/itu-devops/minitwit/internal/repo"
)

const sessionName = "minitwit_session"

// webApp carries the store handles and session machinery every page handler needs.
// Identity is resolved once per request (currentUser) and passed along explicitly.
type webApp struct {
	cfg      config.Config
	users    *repo.UserRepo
	messages *repo.MessageRepo
	follows  *repo.FollowRepo
	auth     *auth.Service
	store    *sessions.CookieStore
}

func main() {
	cfg := config.Load()

	setupLogger(cfg.LogFormat)

	if cfg.Env == "prod" && cfg.SessionSecret == "development-key" {
		slog.Error("SESSION_SECRET must be set in prod")
		os.Exit(1)
	}

	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
	)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	if err := db.Migrate(cfg.DatabaseURL()); err != nil {
		slog.Error("run migrations", "error", err)
		os.Exit(1)
	}

	app := newWebApp(database, cfg)

	addr := ":" + cfg.WebPort
	slog.Info("web listening", "addr", addr)
	if err := http.ListenAndServe(addr, app.router()); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newWebApp(database *sql.DB, cfg config.Config) *webApp {
	users := repo.NewUserRepo(database)

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   16 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &webApp{
		cfg:      cfg,
		users:    users,
		messages: repo.NewMessageRepo(database),
		follows:  repo.NewFollowRepo(database),
		auth:     auth.NewService(users, auth.BcryptHasher{}),
		store:    store,
	}
}

func (app *webApp) router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(false))

	authLimiter := middleware.LoginRateLimiter()

	r.Get("/", app.timeline)
	r.Get("/public", app.publicTimeline)

	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Get("/login", app.loginForm)
		r.Post("/login", app.loginSubmit)
		r.Get("/register", app.registerForm)
		r.Post("/register", app.registerSubmit)
	})

	r.Get("/logout", app.logout)
	r.Post("/add_message", app.addMessage)
	r.Get("/{username}", app.userTimeline)
	r.Get("/{username}/follow", app.followUser)
	r.Get("/{username}/unfollow", app.unfollowUser)

	return r
}

// setupLogger installs the default slog handler: text for humans, json for shippers.
func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
