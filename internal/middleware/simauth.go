package middleware

import (
	"encoding/json"
	"net/http"
)

// SimAuth gates the simulator API behind the fixed shared secret the harness
// sends as "Authorization: Basic <token>". Anything else gets the literal 403
// body the harness expects.
func SimAuth(token string) func(http.Handler) http.Handler {
	expected := "Basic " + token
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != expected {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"status":    http.StatusForbidden,
					"error_msg": "You are not authorized to use this resource!",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
