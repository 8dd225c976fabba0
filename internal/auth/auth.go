package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/itu-devops/minitwit/internal/models"
	"github.com/itu-devops/minitwit/internal/repo"
	"github.com/lib/pq"
)

// ValidationError carries a user-visible registration failure message.
// The messages are fixed strings clients and the simulator harness assert on.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthError carries a user-visible login failure message.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

var (
	ErrUsernameRequired  = &ValidationError{"You have to enter a username"}
	ErrEmailInvalid      = &ValidationError{"You have to enter a valid email address"}
	ErrPasswordRequired  = &ValidationError{"You have to enter a password"}
	ErrPasswordsMismatch = &ValidationError{"The two passwords do not match"}
	ErrUsernameTaken     = &ValidationError{"The username is already taken"}

	ErrInvalidUsername = &AuthError{"Invalid username"}
	ErrInvalidPassword = &AuthError{"Invalid password"}
)

// ==========================
// Auth Service
// ==========================
type Service struct {
	Users  *repo.UserRepo
	Hasher PasswordHasher
}

func NewService(users *repo.UserRepo, hasher PasswordHasher) *Service {
	return &Service{Users: users, Hasher: hasher}
}

// Register validates and creates a user. Checks run in a fixed order and the
// first failure wins: username, email, password, username taken.
func (s *Service) Register(ctx context.Context, username, email, password string) (models.User, error) {
	return s.register(ctx, username, email, password, nil)
}

// RegisterForm is the web-form variant: between the password and the
// username-taken checks it also requires the confirmation field to match.
func (s *Service) RegisterForm(ctx context.Context, username, email, password, confirm string) (models.User, error) {
	return s.register(ctx, username, email, password, &confirm)
}

func (s *Service) register(ctx context.Context, username, email, password string, confirm *string) (models.User, error) {
	switch {
	case username == "":
		return models.User{}, ErrUsernameRequired
	case email == "" || !strings.Contains(email, "@"):
		return models.User{}, ErrEmailInvalid
	case password == "":
		return models.User{}, ErrPasswordRequired
	case confirm != nil && password != *confirm:
		return models.User{}, ErrPasswordsMismatch
	}

	_, err := s.Users.GetByUsername(ctx, username)
	if err == nil {
		return models.User{}, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.Users.Create(ctx, username, email, hash)
	if err != nil {
		// Two registrations can race past the pre-check; the unique index on
		// username is the final authority.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}

	return user, nil
}

// Login resolves a username/password pair to a user id. The two failure
// messages are deliberately the only signal about what went wrong.
func (s *Service) Login(ctx context.Context, username, password string) (int, error) {
	user, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInvalidUsername
	}
	if err != nil {
		return 0, err
	}

	if !s.Hasher.Verify(user.PwHash, password) {
		return 0, ErrInvalidPassword
	}

	return user.ID, nil
}
