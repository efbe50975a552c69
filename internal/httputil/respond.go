package httputil

import (
	"encoding/json"
	"net/http"

	apierr "github.com/harrygamon/Socials/internal/errors"
)

// ErrorResponse is the JSON body every failed request gets.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondJSON writes a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// RespondError maps any error through the central mapper and writes it.
func RespondError(w http.ResponseWriter, err error) {
	e := apierr.Map(err)
	RespondJSON(w, e.Status, ErrorResponse{Error: e.Message})
}

// DecodeJSON parses a request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apierr.InvalidRequest("malformed JSON body")
	}
	return nil
}
