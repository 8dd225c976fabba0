package main

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/itu-devops/minitwit/internal/config"
)

var timelineColumns = []string{
	"message_id", "author_id", "text", "pub_date", "flagged",
	"user_id", "username", "email",
}

func newTestApp(t *testing.T) (*webApp, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{SessionSecret: "test-secret", PerPage: 30}
	return newWebApp(db, cfg), mock
}

func TestGravatarURL(t *testing.T) {
	// Gravatar hashes the lowercased, trimmed address, so these are all the
	// same avatar.
	a := gravatarURL("alice@example.com")
	b := gravatarURL("  ALICE@example.com ")
	if a != b {
		t.Errorf("expected normalized addresses to agree: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "https://www.gravatar.com/avatar/") {
		t.Errorf("unexpected URL: %q", a)
	}
	if !strings.Contains(a, "d=identicon") || !strings.Contains(a, "s=48") {
		t.Errorf("missing identicon parameters: %q", a)
	}
}

func TestPublicTimeline_Anonymous(t *testing.T) {
	app, mock := newTestApp(t)

	now := time.Now()
	mock.ExpectQuery(`WHERE m\.flagged = 0`).
		WithArgs(30).
		WillReturnRows(sqlmock.NewRows(timelineColumns).
			AddRow(1, 1, "hello town", now, 0, 1, "alice", "a@example.com"))

	srv := httptest.NewServer(app.router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/public")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "hello town") || !strings.Contains(string(body), "alice") {
		t.Errorf("expected message on the page, got: %s", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTimeline_AnonymousRedirectsToPublic(t *testing.T) {
	app, _ := newTestApp(t)

	srv := httptest.NewServer(app.router())
	defer srv.Close()

	client := srv.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status: got %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/public" {
		t.Errorf("redirect location: got %q, want /public", loc)
	}
}

func TestRegisterSubmit_MismatchRendersError(t *testing.T) {
	app, _ := newTestApp(t)

	srv := httptest.NewServer(app.router())
	defer srv.Close()

	form := url.Values{
		"username":  {"alice"},
		"email":     {"a@example.com"},
		"password":  {"pw"},
		"password2": {"other"},
	}
	resp, err := http.PostForm(srv.URL+"/register", form)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "The two passwords do not match") {
		t.Errorf("expected validation message on the page, got: %s", body)
	}
	// The username survives the round trip.
	if !strings.Contains(string(body), `value="alice"`) {
		t.Errorf("expected sticky username, got: %s", body)
	}
}

func TestRegisterSubmit_SuccessRedirectsToLogin(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`SELECT user_id, username, email, pw_hash`).
		WithArgs("alice").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "a@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email", "pw_hash"}).
			AddRow(1, "alice", "a@example.com", "hash"))

	srv := httptest.NewServer(app.router())
	defer srv.Close()

	client := srv.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	form := url.Values{
		"username":  {"alice"},
		"email":     {"a@example.com"},
		"password":  {"pw"},
		"password2": {"pw"},
	}
	resp, err := client.PostForm(srv.URL+"/register", form)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status: got %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("redirect location: got %q, want /login", loc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserTimeline_UnknownUser(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`SELECT user_id, username, email, pw_hash`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	srv := httptest.NewServer(app.router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ghost")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAddMessage_AnonymousUnauthorized(t *testing.T) {
	app, _ := newTestApp(t)

	srv := httptest.NewServer(app.router())
	defer srv.Close()

	resp, err := http.PostForm(srv.URL+"/add_message", url.Values{"text": {"hi"}})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", resp.StatusCode)
	}
}
