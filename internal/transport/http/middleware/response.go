package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes a JSON-encoded error with the wire error code, so
// clients can branch on the same taxonomy the handlers emit.
func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]string{"error": msg}
	if code != "" {
		body["error_code"] = code
	}
	_ = json.NewEncoder(w).Encode(body)
}
