package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/promptlover/promptlover-be/internal/auth"
	"github.com/promptlover/promptlover-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration and the session lifecycle.
type AuthHandler struct {
	users    services.UserServiceProvider
	sessions *auth.Sessions
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

// credentials is the request body for register and login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", services.ErrValidation))
		return
	}

	user, err := h.users.Register(payload.Username, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user.Public())
}

// Login authenticates credentials and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", services.ErrValidation))
		return
	}

	user, err := h.users.AuthenticateUser(payload.Username, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed authentication attempt")
		respondError(w, err)
		return
	}

	token, err := h.sessions.GenerateToken(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate session token")
		respondError(w, fmt.Errorf("failed to start session"))
		return
	}

	h.sessions.SetCookie(w, token)
	respondJSON(w, http.StatusOK, user.Public())
}

// Whoami resolves the session cookie to its user. A cookie that no longer
// maps to a stored user is cleared before the 401 goes out.
func (h *AuthHandler) Whoami(w http.ResponseWriter, r *http.Request) {
	tokenStr := auth.TokenFromRequest(r)
	if tokenStr == "" {
		respondError(w, fmt.Errorf("%w: no active session", services.ErrUnauthorized))
		return
	}

	claims, err := h.sessions.ValidateToken(tokenStr)
	if err != nil {
		h.sessions.ClearCookie(w)
		respondError(w, fmt.Errorf("%w: session expired or invalid", services.ErrUnauthorized))
		return
	}

	user, err := h.users.GetUserByID(claims.UserID)
	if err != nil {
		h.sessions.ClearCookie(w)
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Session references a missing user")
		respondError(w, fmt.Errorf("%w: session expired or invalid", services.ErrUnauthorized))
		return
	}

	respondJSON(w, http.StatusOK, user.Public())
}

// Logout clears the session cookie unconditionally. Idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
