package handler

import (
	"net/http"
	"strings"

	"github.com/pkordes/leadbook/backend/internal/domain"
)

type contactRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   string  `json:"email" validate:"required,email,max=320"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Message string  `json:"message" validate:"max=5000"`
}

func (c *contactRequest) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = trimOptional(c.Phone)
}

// SubmitContact handles POST /contact, the public landing-page form.
// The lead is always created as new with the website source.
func (s *Server) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	created := s.leads.Submit(r.Context(), domain.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	s.log.InfoContext(r.Context(), "lead submitted", "lead_id", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// trimOptional trims s and maps blank values to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
