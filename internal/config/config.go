package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	WebPort string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	// SimAuthToken is the base64 credential the simulator sends as
	// "Authorization: Basic <token>" on every /api request. The default matches
	// the simulator's fixed shared secret.
	SimAuthToken string

	// SessionSecret signs the web app's session cookies.
	SessionSecret string

	// Env is "dev" (default) or "prod". When "prod", SESSION_SECRET must be set
	// and not the default.
	Env string

	// PerPage bounds timeline pages in the web app (default 30).
	PerPage int

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is a list of origins allowed for CORS.
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS
	// headers are sent (same-origin only).
	CORSAllowedOrigins []string
}

func Load() Config {
	// A missing .env file is fine; real env vars or defaults apply.
	_ = godotenv.Load()

	return Config{
		Port:    getEnv("PORT", "8080"),
		WebPort: getEnv("WEB_PORT", "3000"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "minitwit"),
		DBUser: getEnv("DB_USER", "minitwit"),
		DBPass: getEnv("DB_PASS", "minitwit"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		SimAuthToken:  getEnv("SIM_AUTH_TOKEN", "c2ltdWxhdG9yOnN1cGVyX3NhZmUh"),
		SessionSecret: getEnv("SESSION_SECRET", "development-key"),

		Env:     getEnv("ENV", "dev"),
		PerPage: getEnvInt("PER_PAGE", 30),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// DatabaseURL returns the postgres DSN in URL form, as the migration tooling expects.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
