package repo

import (
	"context"
	"database/sql"
)

// ==========================
// LatestRepo
// ==========================
// The latest table holds a single row (id = 1) with the last command id the
// simulator harness asked us to record. Writes are last-write-wins; no
// ordering check is made against the stored value.
type LatestRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewLatestRepo(db *sql.DB) *LatestRepo {
	return &LatestRepo{DB: db}
}

// ==========================
// Get Latest
// ==========================
func (r *LatestRepo) Get(ctx context.Context) (int, error) {
	var value int
	err := r.DB.QueryRowContext(ctx, `SELECT value FROM latest WHERE id = 1`).Scan(&value)
	if err != nil {
		return 0, err
	}
	return value, nil
}

// ==========================
// Set Latest (unconditional overwrite)
// ==========================
func (r *LatestRepo) Set(ctx context.Context, value int) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO latest (id, value) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET value = EXCLUDED.value`,
		value,
	)
	return err
}
