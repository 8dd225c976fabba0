package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/itu-devops/minitwit/internal/metrics"
	"github.com/itu-devops/minitwit/internal/repo"
)

// UpdateLatest records the "latest" query parameter before the handler runs.
// The simulator harness attaches it to every command it issues and later polls
// GET /api/latest to learn how far the server has processed. The write is an
// unconditional overwrite; a malformed or absent parameter is ignored.
func UpdateLatest(latest *repo.LatestRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := r.URL.Query().Get("latest"); raw != "" {
				if value, err := strconv.Atoi(raw); err == nil {
					if err := latest.Set(r.Context(), value); err != nil {
						slog.Error("update latest counter",
							"value", value,
							"error", err)
					} else {
						metrics.LatestCommandID.Set(float64(value))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
