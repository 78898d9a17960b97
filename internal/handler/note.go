package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type noteRequest struct {
	Content      string              `json:"content" validate:"required,max=10000"`
	FollowUpDate *openapi_types.Date `json:"followUpDate"`
}

func (n *noteRequest) normalize() {
	n.Content = strings.TrimSpace(n.Content)
}

// AddNote handles POST /leads/{id}/notes and returns the updated lead; the
// new note is the last entry of its notes.
func (s *Server) AddNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	var followUp *string
	if req.FollowUpDate != nil {
		d := req.FollowUpDate.Format(openapi_types.DateFormat)
		followUp = &d
	}
	updated, err := s.leads.AddNote(r.Context(), chi.URLParam(r, "id"), req.Content, followUp)
	if err != nil {
		s.leadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, updated)
}

// DeleteNote handles DELETE /leads/{id}/notes/{noteID}. Unknown ids still
// return 204.
func (s *Server) DeleteNote(w http.ResponseWriter, r *http.Request) {
	s.leads.DeleteNote(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "noteID"))
	w.WriteHeader(http.StatusNoContent)
}
