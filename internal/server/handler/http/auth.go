package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/hoaivu016/abc-backoffice/internal/service"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	Auth *service.AuthService
}

// RegisterRequest is the JSON payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a back-office user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	u, err := h.Auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{
		"id":    u.ID,
		"email": u.Email,
	})
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	token, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		respondError(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	render.JSON(w, r, map[string]string{"token": token})
}
