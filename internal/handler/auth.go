package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shreyash/bloghub/internal/auth"
	"github.com/shreyash/bloghub/internal/model"
	"github.com/shreyash/bloghub/internal/service"
)

// AuthHandler exposes registration, login and the current-user endpoint.
type AuthHandler struct {
	auth      *service.AuthService
	responder responder
}

func NewAuthHandler(authService *service.AuthService, logger *slog.Logger, devDetail bool) *AuthHandler {
	return &AuthHandler{
		auth:      authService,
		responder: newResponder(logger, devDetail),
	}
}

// authBody is the success envelope for register and login. The user is the
// public projection — the hash never reaches JSON.
type authBody struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

// HandleRegister creates an account.
//
// HTTP: POST /api/auth/register
// Body: {"username": "...", "email": "...", "password": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeInvalidBody(w)
		return
	}

	result, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.responder.writeError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusCreated, authBody{
		Success: true,
		Message: "User registered successfully",
		Token:   result.Token,
		User:    result.User.Public(),
	})
}

// HandleLogin exchanges credentials for a token.
//
// HTTP: POST /api/auth/login
// Body: {"email": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeInvalidBody(w)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.responder.writeError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, authBody{
		Success: true,
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User.Public(),
	})
}

// HandleMe returns the caller's full profile.
//
// HTTP: GET /api/auth/me (authenticated)
//
// Unlike the middleware, this DOES hit the store: the token says who you
// were when it was issued, the profile says who you are now. A deleted
// account gets a 404 here even though its token still passes the gate.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.responder.writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Authentication required"})
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), identity.ID)
	if err != nil {
		h.responder.writeError(w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, struct {
		Success bool             `json:"success"`
		User    model.PublicUser `json:"user"`
	}{Success: true, User: user.Public()})
}
