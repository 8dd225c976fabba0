package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/itu-devops/minitwit/internal/repo"
)

func TestFollowHandler_GetFollows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id, username, email, pw_hash`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email", "pw_hash"}).
			AddRow(1, "alice", "a@example.com", "hash"))
	mock.ExpectQuery(`JOIN followers f ON f\.whom_id = u\.user_id`).
		WithArgs(1, 100).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email"}).
			AddRow(2, "bob", "b@example.com"))

	h := &FollowHandler{Follows: repo.NewFollowRepo(db), Users: repo.NewUserRepo(db)}

	req := requestWithChiURLParams("GET", "/api/fllws/alice", nil, map[string]string{"username": "alice"})
	rr := httptest.NewRecorder()
	h.GetFollows(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	var resp struct {
		Follows []string `json:"follows"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Follows) != 1 || resp.Follows[0] != "bob" {
		t.Errorf("unexpected follows: %+v", resp.Follows)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestFollowHandler_PostFollows_Follow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id, username, email, pw_hash`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email", "pw_hash"}).
			AddRow(1, "alice", "a@example.com", "hash"))
	mock.ExpectQuery(`SELECT user_id, username, email, pw_hash`).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email", "pw_hash"}).
			AddRow(2, "bob", "b@example.com", "hash"))
	mock.ExpectExec(`INSERT INTO followers`).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &FollowHandler{Follows: repo.NewFollowRepo(db), Users: repo.NewUserRepo(db)}

	body, _ := json.Marshal(map[string]string{"follow": "bob"})
	req := requestWithChiURLParams("POST", "/api/fllws/alice", body, map[string]string{"username": "alice"})
	rr := httptest.NewRecorder()
	h.PostFollows(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestFollowHandler_PostFollows_Unfollow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id, username, email, pw_hash`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email", "pw_hash"}).
			AddRow(1, "alice", "a@example.com", "hash"))
	mock.ExpectQuery(`SELECT user_id, username, email, pw_hash`).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email", "pw_hash"}).
			AddRow(2, "bob", "b@example.com", "hash"))
	mock.ExpectExec(`DELETE FROM followers`).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &FollowHandler{Follows: repo.NewFollowRepo(db), Users: repo.NewUserRepo(db)}

	body, _ := json.Marshal(map[string]string{"unfollow": "bob"})
	req := requestWithChiURLParams("POST", "/api/fllws/alice", body, map[string]string{"username": "alice"})
	rr := httptest.NewRecorder()
	h.PostFollows(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestFollowHandler_PostFollows_UnknownSubject(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id, username, email, pw_hash`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	h := &FollowHandler{Follows: repo.NewFollowRepo(db), Users: repo.NewUserRepo(db)}

	body, _ := json.Marshal(map[string]string{"follow": "bob"})
	req := requestWithChiURLParams("POST", "/api/fllws/ghost", body, map[string]string{"username": "ghost"})
	rr := httptest.NewRecorder()
	h.PostFollows(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestFollowHandler_PostFollows_NeitherField(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id, username, email, pw_hash`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email", "pw_hash"}).
			AddRow(1, "alice", "a@example.com", "hash"))

	h := &FollowHandler{Follows: repo.NewFollowRepo(db), Users: repo.NewUserRepo(db)}

	req := requestWithChiURLParams("POST", "/api/fllws/alice", []byte(`{}`), map[string]string{"username": "alice"})
	rr := httptest.NewRecorder()
	h.PostFollows(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
