package server

import (
	"encoding/json"
	"net/http"

	svcErr "github.com/mixenapp/mixen-backend/internal/errors"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a transport error and writes it as
// {"error": "..."} JSON.
func WriteError(w http.ResponseWriter, err error) {
	appErr := svcErr.Map(err)
	WriteJSON(w, appErr.Status, appErr)
}

// DecodeJSON decodes the request body into dst. Unknown fields are
// tolerated; a malformed body is a 400.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return svcErr.InvalidArgument("invalid JSON body")
	}
	return nil
}
