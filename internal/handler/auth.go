package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/pkordes/leadbook/backend/internal/auth"
)

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the admin bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login handles POST /admin/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	token, exp, err := s.auth.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.log.WarnContext(r.Context(), "admin login rejected")
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid password")
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: exp})
}
