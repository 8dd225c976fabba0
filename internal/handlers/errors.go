package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// ErrorResponse is the error payload the simulator harness expects.
type ErrorResponse struct {
	Status   int    `json:"status"`
	ErrorMsg string `json:"error_msg"`
}

// JSONError sends the {"status": ..., "error_msg": ...} error body with the given HTTP status.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:   status,
		ErrorMsg: message,
	})
}
