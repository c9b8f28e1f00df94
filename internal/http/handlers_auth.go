package http

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/yashx007/Finance-App/internal/auth"
	"github.com/yashx007/Finance-App/internal/core"
	"github.com/yashx007/Finance-App/internal/store"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

const minPasswordLength = 8

func (c *credentialsRequest) validate() error {
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return core.ErrInvalidPayload
	}
	if len(c.Password) < minPasswordLength {
		return core.ErrInvalidPayload
	}
	return nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "email and password (min 8 chars) required"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hash error", "error", err)
		writeError(w, err)
		return
	}

	user, err := s.users.CreateUser(r.Context(), store.User{
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.verifier.Issue(user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Token issue error", "error", err, "user_id", user.ID)
		writeError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "User registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, authResponse{
		Token: token,
		User:  userView{ID: user.ID, Email: user.Email},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "email and password required"})
		return
	}

	user, err := s.users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		// Unknown email surfaces as not found, matching the lookup.
		writeError(w, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	token, err := s.verifier.Issue(user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Token issue error", "error", err, "user_id", user.ID)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token: token,
		User:  userView{ID: user.ID, Email: user.Email},
	})
}
