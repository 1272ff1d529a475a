package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/snapgrid/snapgrid-be/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeAppError maps the error taxonomy onto HTTP statuses. Policy errors
// carry the full list of violated rules so the client can show all of them.
func writeAppError(w http.ResponseWriter, err error) {
	var policyErr *apperrors.PolicyError
	if errors.As(err, &policyErr) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":      "password does not meet policy",
			"violations": policyErr.Violations,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrTransport):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// sessionKey extracts the caller's session key from the X-Session-Key header
// or the session cookie. Empty means anonymous.
func sessionKey(r *http.Request) string {
	if key := r.Header.Get("X-Session-Key"); key != "" {
		return key
	}
	if cookie, err := r.Cookie("session"); err == nil {
		return cookie.Value
	}
	return ""
}
