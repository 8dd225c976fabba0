package repo

import (
	"context"
	"database/sql"

	"github.com/itu-devops/minitwit/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, email, pwHash string) (models.User, error) {
	query := `
		INSERT INTO users (username, email, pw_hash)
		VALUES ($1, $2, $3)
		RETURNING user_id, username, email, pw_hash
	`

	var user models.User

	err := r.DB.QueryRowContext(ctx, query, username, email, pwHash).
		Scan(&user.ID, &user.Username, &user.Email, &user.PwHash)

	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (models.User, error) {
	query := `
		SELECT user_id, username, email, pw_hash
		FROM users
		WHERE user_id = $1
	`

	var user models.User

	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PwHash)

	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// ==========================
// Get By Username (case-sensitive exact match)
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	query := `
		SELECT user_id, username, email, pw_hash
		FROM users
		WHERE username = $1
	`

	var user models.User

	err := r.DB.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.PwHash)

	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// ==========================
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context, limit int) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT user_id, username, email, pw_hash FROM users ORDER BY user_id LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PwHash); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
