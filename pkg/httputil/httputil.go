// Package httputil carries the JSON helpers shared by all HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"samadhan/pkg/domainerrors"
)

// ErrorResponse is the error envelope returned on every failed request.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps err onto the error envelope. Internal errors keep their
// detail out of the response body.
func WriteError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)

	resp := ErrorResponse{Error: string(code)}
	if code != domainerrors.CodeInternal {
		var de *domainerrors.Error
		if errors.As(err, &de) {
			resp.ErrorDescription = de.Message
		}
	}
	WriteJSON(w, domainerrors.ToHTTPStatus(code), resp)
}

// Decode parses the request body into T. On failure it writes a validation
// error and returns false.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (T, bool) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		logger.WarnContext(r.Context(), "malformed request body", "path", r.URL.Path, "error", err)
		WriteError(w, domainerrors.New(domainerrors.CodeValidation, "malformed JSON request body"))
		return v, false
	}
	return v, true
}
