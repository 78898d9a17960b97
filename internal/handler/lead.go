package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/leadbook/backend/internal/domain"
)

// leadRequest is the body of POST /leads. An omitted source or status falls
// back to the add form's defaults.
type leadRequest struct {
	Name   string  `json:"name" validate:"required,max=200"`
	Email  string  `json:"email" validate:"required,email,max=320"`
	Phone  *string `json:"phone" validate:"omitempty,max=50"`
	Source string  `json:"source" validate:"max=200"`
	Status string  `json:"status" validate:"omitempty,oneof=new contacted converted"`
}

func (l *leadRequest) normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.TrimSpace(l.Email)
	l.Phone = trimOptional(l.Phone)
	l.Source = strings.TrimSpace(l.Source)
	if l.Source == "" {
		l.Source = domain.PublicSource
	}
	if l.Status == "" {
		l.Status = string(domain.StatusNew)
	}
}

func (l leadRequest) fields() domain.LeadFields {
	return domain.LeadFields{
		Name:   l.Name,
		Email:  l.Email,
		Phone:  l.Phone,
		Source: l.Source,
		Status: domain.Status(l.Status),
	}
}

// leadPatchRequest is the body of PUT /leads/{id}. Only the fields present are
// changed; an empty phone clears it.
type leadPatchRequest struct {
	Name   *string `json:"name" validate:"omitnil,min=1,max=200"`
	Email  *string `json:"email" validate:"omitnil,email,max=320"`
	Phone  *string `json:"phone" validate:"omitnil,max=50"`
	Source *string `json:"source" validate:"omitnil,min=1,max=200"`
	Status *string `json:"status" validate:"omitnil,oneof=new contacted converted"`
}

func (l *leadPatchRequest) normalize() {
	for _, f := range []*string{l.Name, l.Email, l.Phone, l.Source} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (l leadPatchRequest) patch() domain.LeadPatch {
	p := domain.LeadPatch{
		Name:   l.Name,
		Email:  l.Email,
		Phone:  l.Phone,
		Source: l.Source,
	}
	if l.Status != nil {
		st := domain.Status(*l.Status)
		p.Status = &st
	}
	return p
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted converted"`
}

// LeadListResponse is the body of GET /leads.
type LeadListResponse struct {
	Data  domain.Leads `json:"data"`
	Total int          `json:"total"`
}

// ListLeads handles GET /leads.
// Supports ?q= (case-insensitive name/email substring) and ?status= (all|new|contacted|converted).
func (s *Server) ListLeads(w http.ResponseWriter, r *http.Request) {
	p, err := bindListParams(r)
	if err != nil {
		unprocessable(w, err.Error())
		return
	}
	leads, rev := s.leads.List(r.Context(), p.Query, p.Filter)
	if notModified(w, r, etag(rev)) {
		return
	}
	writeJSON(w, http.StatusOK, LeadListResponse{Data: leads, Total: len(leads)})
}

// CreateLead handles POST /leads.
func (s *Server) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	created := s.leads.Create(r.Context(), req.fields())
	w.Header().Set("Location", "/leads/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// GetLead handles GET /leads/{id}.
func (s *Server) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := s.leads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.leadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// UpdateLead handles PUT /leads/{id}. Omitted fields, notes and creation time
// are kept.
func (s *Server) UpdateLead(w http.ResponseWriter, r *http.Request) {
	var req leadPatchRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	updated, err := s.leads.Update(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		s.leadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// SetLeadStatus handles PUT /leads/{id}/status.
func (s *Server) SetLeadStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		unprocessable(w, err.Error())
		return
	}
	updated, err := s.leads.SetStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		s.leadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteLead handles DELETE /leads/{id}. Deleting an unknown id still
// returns 204.
func (s *Server) DeleteLead(w http.ResponseWriter, r *http.Request) {
	s.leads.Delete(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// ListSources handles GET /sources. The list is a suggestion; any source
// string is accepted on create and update.
func (s *Server) ListSources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.SuggestedSources)
}

// leadError maps store errors to responses.
func (s *Server) leadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		notFound(w, "lead not found")
	case errors.Is(err, domain.ErrValidation):
		unprocessable(w, err.Error())
	default:
		s.internalError(w, r, err)
	}
}
