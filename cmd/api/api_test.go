package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/itu-devops/minitwit/internal/config"
)

const simToken = "c2ltdWxhdG9yOnN1cGVyX3NhZmUh"

func newTestServer(t *testing.T) (*httptest.Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{SimAuthToken: simToken, PerPage: 30}
	srv := httptest.NewServer(newRouter(db, cfg))
	t.Cleanup(srv.Close)
	return srv, mock
}

func simRequest(t *testing.T, srv *httptest.Server, method, path string, body []byte) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Basic "+simToken)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// TestAPI_RegisterThenLatest is an integration test: it builds the full router
// with a sqlmock-backed DB, registers a user with a latest parameter attached,
// then polls GET /api/latest.
func TestAPI_RegisterThenLatest(t *testing.T) {
	srv, mock := newTestServer(t)

	// POST /api/register?latest=1337: record the counter, then register.
	mock.ExpectExec(`INSERT INTO latest`).
		WithArgs(1337).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT user_id, username, email, pw_hash`).
		WithArgs("simuser").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("simuser", "sim@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email", "pw_hash"}).
			AddRow(1, "simuser", "sim@example.com", "hash"))

	// GET /api/latest
	mock.ExpectQuery(`SELECT value FROM latest WHERE id = 1`).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(1337))

	body, _ := json.Marshal(map[string]string{
		"username": "simuser",
		"email":    "sim@example.com",
		"pwd":      "secret",
	})
	resp := simRequest(t, srv, "POST", "/api/register?latest=1337", body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("register status: got %d, want 204", resp.StatusCode)
	}

	resp = simRequest(t, srv, "GET", "/api/latest", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("latest status: got %d, want 200", resp.StatusCode)
	}
	var out struct {
		Latest int `json:"latest"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode latest: %v", err)
	}
	if out.Latest != 1337 {
		t.Errorf("latest: got %d, want 1337", out.Latest)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAPI_UnauthorizedWithoutSimToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/latest")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "You are not authorized to use this resource!") {
		t.Errorf("unexpected body: %s", b)
	}
}

func TestAPI_RegisterValidationError(t *testing.T) {
	srv, mock := newTestServer(t)

	body, _ := json.Marshal(map[string]string{
		"username": "",
		"email":    "a@example.com",
		"pwd":      "pw",
	})
	resp := simRequest(t, srv, "POST", "/api/register", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}
	var out struct {
		Status   int    `json:"status"`
		ErrorMsg string `json:"error_msg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Status != 400 || out.ErrorMsg != "You have to enter a username" {
		t.Errorf("unexpected error body: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAPI_ListMessages(t *testing.T) {
	srv, mock := newTestServer(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`WHERE m\.flagged = 0`).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{
			"message_id", "author_id", "text", "pub_date", "flagged",
			"user_id", "username", "email",
		}).AddRow(1, 1, "hello from the simulator", now, 0, 1, "simuser", "sim@example.com"))

	resp := simRequest(t, srv, "GET", "/api/msgs", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var msgs []struct {
		Content string `json:"content"`
		User    string `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].User != "simuser" {
		t.Errorf("unexpected messages: %+v", msgs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAPI_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}
