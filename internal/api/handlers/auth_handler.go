package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/snapgrid/snapgrid-be/internal/gate"
)

// AuthHandler handles HTTP requests for the session gate.
type AuthHandler struct {
	gate *gate.Gate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(g *gate.Gate) *AuthHandler {
	return &AuthHandler{gate: g}
}

// CredentialsPayload defines the structure for login and registration requests.
type CredentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ensureKey returns the caller's session key, minting one for first-time
// visitors so the gate has a slot to write.
func ensureKey(r *http.Request) string {
	if key := sessionKey(r); key != "" {
		return key
	}
	return uuid.New().String()
}

func setSessionCookie(w http.ResponseWriter, key string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    key,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

// Login handles sign-in against the user-record store.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	key := ensureKey(r)
	user, err := h.gate.Login(r.Context(), key, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed login attempt")
		writeAppError(w, err)
		return
	}

	setSessionCookie(w, key)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":       user,
		"sessionKey": key,
	})
}

// Register handles account creation.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	key := ensureKey(r)
	user, err := h.gate.CreateAccount(r.Context(), key, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed registration attempt")
		writeAppError(w, err)
		return
	}

	setSessionCookie(w, key)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":       user,
		"sessionKey": key,
	})
}

// Logout clears the caller's session slot.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Logout(r.Context(), sessionKey(r)); err != nil {
		writeAppError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:   "session",
		Value:  "",
		MaxAge: -1,
		Path:   "/",
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the record behind the caller's session slot.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.gate.CurrentUser(r.Context(), sessionKey(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Session reports whether the caller is authenticated.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"authenticated": h.gate.IsAuthenticated(r.Context(), sessionKey(r)),
	})
}
