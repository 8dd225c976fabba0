package config

import (
	"database/sql"

	"github.com/itu-devops/minitwit/internal/config"
	"github.com/itu-devops/minitwit/internal/db"
)

// OpenDB connects to the MiniTwit database using the same environment
// variables the services read (DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASS).
func OpenDB() (*sql.DB, error) {
	cfg := config.Load()
	return db.Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)
}
