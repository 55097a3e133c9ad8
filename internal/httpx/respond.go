package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteJSON writes v with the given status. v is encoded before any header
// goes out, so an unencodable value becomes a clean 500.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err, "status", status)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal_error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, code, message string, details any) {
	WriteJSON(w, status, ErrorResponse{Error: code, Message: message, Details: details})
}

// Redirect sends the client to location. Short-link answers change when a
// link expires, so they are marked uncacheable.
func Redirect(w http.ResponseWriter, r *http.Request, location string, status int) {
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, location, status)
}
