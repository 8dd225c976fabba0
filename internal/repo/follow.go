package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/itu-devops/minitwit/internal/models"
)

// ==========================
// FollowRepo
// ==========================
type FollowRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewFollowRepo(db *sql.DB) *FollowRepo {
	return &FollowRepo{DB: db}
}

// ==========================
// Follow (idempotent; the composite primary key absorbs duplicates)
// ==========================
func (r *FollowRepo) Follow(ctx context.Context, whoID, whomID int) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO followers (who_id, whom_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		whoID, whomID,
	)
	return err
}

// ==========================
// Unfollow (removing a missing edge is a no-op)
// ==========================
func (r *FollowRepo) Unfollow(ctx context.Context, whoID, whomID int) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM followers WHERE who_id = $1 AND whom_id = $2`,
		whoID, whomID,
	)
	return err
}

// ==========================
// Is Following
// ==========================
func (r *FollowRepo) IsFollowing(ctx context.Context, whoID, whomID int) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		`SELECT 1 FROM followers WHERE who_id = $1 AND whom_id = $2`,
		whoID, whomID,
	).Scan(&one)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// ==========================
// Following: accounts that whoID follows
// ==========================
func (r *FollowRepo) Following(ctx context.Context, whoID, limit int) ([]models.User, error) {
	query := `
		SELECT u.user_id, u.username, u.email
		FROM users u
		JOIN followers f ON f.whom_id = u.user_id
		WHERE f.who_id = $1
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, whoID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
