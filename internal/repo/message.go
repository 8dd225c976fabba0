package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/itu-devops/minitwit/internal/models"
)

// ==========================
// MessageRepo
// ==========================
type MessageRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{DB: db}
}

// ==========================
// Create Message
// ==========================
func (r *MessageRepo) Create(ctx context.Context, authorID int, text string, pubDate time.Time) (models.Message, error) {
	query := `
		INSERT INTO messages (author_id, text, pub_date, flagged)
		VALUES ($1, $2, $3, 0)
		RETURNING message_id, author_id, text, pub_date, flagged
	`

	var msg models.Message

	err := r.DB.QueryRowContext(ctx, query, authorID, text, pubDate).
		Scan(&msg.ID, &msg.AuthorID, &msg.Text, &msg.PubDate, &msg.Flagged)

	if err != nil {
		return models.Message{}, err
	}

	return msg, nil
}

// ==========================
// List Public Messages (flagged excluded, newest first)
// ==========================
func (r *MessageRepo) ListPublic(ctx context.Context, limit int) ([]models.TimelineEntry, error) {
	query := `
		SELECT m.message_id, m.author_id, m.text, m.pub_date, m.flagged,
		       u.user_id, u.username, u.email
		FROM messages m
		JOIN users u ON m.author_id = u.user_id
		WHERE m.flagged = 0
		ORDER BY m.pub_date DESC
		LIMIT $1
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTimeline(rows)
}

// ==========================
// List User Messages
// ==========================
func (r *MessageRepo) ListByUser(ctx context.Context, authorID, limit int) ([]models.TimelineEntry, error) {
	query := `
		SELECT m.message_id, m.author_id, m.text, m.pub_date, m.flagged,
		       u.user_id, u.username, u.email
		FROM messages m
		JOIN users u ON m.author_id = u.user_id
		WHERE m.flagged = 0 AND u.user_id = $1
		ORDER BY m.pub_date DESC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, authorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTimeline(rows)
}

// ==========================
// List Timeline (own + followed, set union, sort/limit after the union)
// ==========================
func (r *MessageRepo) ListTimeline(ctx context.Context, userID, limit int) ([]models.TimelineEntry, error) {
	query := `
		(SELECT m.message_id, m.author_id, m.text, m.pub_date, m.flagged,
		        u.user_id, u.username, u.email
		 FROM followers f
		 JOIN messages m ON m.author_id = f.whom_id
		 JOIN users u ON u.user_id = m.author_id
		 WHERE f.who_id = $1 AND m.flagged = 0)
		UNION
		(SELECT m.message_id, m.author_id, m.text, m.pub_date, m.flagged,
		        u.user_id, u.username, u.email
		 FROM messages m
		 JOIN users u ON u.user_id = m.author_id
		 WHERE u.user_id = $1 AND m.flagged = 0)
		ORDER BY pub_date DESC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTimeline(rows)
}

// ==========================
// Get Message By ID
// ==========================
func (r *MessageRepo) GetByID(ctx context.Context, id int) (models.Message, error) {
	query := `
		SELECT message_id, author_id, text, pub_date, flagged
		FROM messages
		WHERE message_id = $1
	`

	var msg models.Message

	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&msg.ID, &msg.AuthorID, &msg.Text, &msg.PubDate, &msg.Flagged)

	if err != nil {
		return models.Message{}, err
	}

	return msg, nil
}

// ==========================
// Set Flagged (moderation)
// ==========================
func (r *MessageRepo) SetFlagged(ctx context.Context, id, flagged int) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE messages SET flagged = $1 WHERE message_id = $2`,
		flagged, id,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ==========================
// List Recent (moderation view, flagged included)
// ==========================
func (r *MessageRepo) ListRecent(ctx context.Context, limit int) ([]models.TimelineEntry, error) {
	query := `
		SELECT m.message_id, m.author_id, m.text, m.pub_date, m.flagged,
		       u.user_id, u.username, u.email
		FROM messages m
		JOIN users u ON m.author_id = u.user_id
		ORDER BY m.pub_date DESC
		LIMIT $1
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTimeline(rows)
}

func scanTimeline(rows *sql.Rows) ([]models.TimelineEntry, error) {
	var entries []models.TimelineEntry
	for rows.Next() {
		var e models.TimelineEntry
		if err := rows.Scan(
			&e.Message.ID, &e.Message.AuthorID, &e.Message.Text, &e.Message.PubDate, &e.Message.Flagged,
			&e.Author.ID, &e.Author.Username, &e.Author.Email,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
