package main

import (
	"crypto/md5"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/itu-devops/minitwit/internal/models"
)

//go:embed templates
var templatesFS embed.FS

// pageData is the single payload shape every page template receives.
type pageData struct {
	Title       string
	User        *models.User
	ProfileUser *models.User
	Followed    bool
	Messages    []models.TimelineEntry
	Flashes     []string
	Error       string

	// Sticky form values re-rendered after a validation failure.
	FormUsername string
	FormEmail    string
}

var templateFuncs = template.FuncMap{
	"gravatar": gravatarURL,
	"datetimeformat": func(t time.Time) string {
		return t.Format("2006-01-02 @ 15:04")
	},
}

var pageTemplates = parseTemplates()

func parseTemplates() map[string]*template.Template {
	pages := []string{"timeline.html", "login.html", "register.html"}
	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		out[page] = template.Must(
			template.New("layout.html").Funcs(templateFuncs).ParseFS(
				templatesFS, "templates/layout.html", "templates/"+page,
			),
		)
	}
	return out
}

// gravatarURL returns the avatar for an email address, identicon fallback.
func gravatarURL(email string) string {
	hash := md5.Sum([]byte(strings.TrimSpace(strings.ToLower(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon&s=48", hash)
}

func renderTemplate(w http.ResponseWriter, page string, data pageData) {
	tmpl, ok := pageTemplates[page]
	if !ok {
		slog.Error("unknown template", "page", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		slog.Error("render template", "page", page, "error", err)
	}
}
