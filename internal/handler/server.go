// Package handler implements the HTTP handlers for the Lead Book API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, lead.go, etc.) but all share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pkordes/leadbook/backend/internal/domain"
	"github.com/pkordes/leadbook/backend/internal/middleware"
	"github.com/pkordes/leadbook/backend/spec"
)

// LeadServicer defines the lead store operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching storage.
type LeadServicer interface {
	List(ctx context.Context, query string, filter domain.StatusFilter) (domain.Leads, domain.Revision)
	Get(ctx context.Context, id string) (domain.Lead, error)
	Submit(ctx context.Context, sub domain.Submission) domain.Lead
	Create(ctx context.Context, f domain.LeadFields) domain.Lead
	Update(ctx context.Context, id string, p domain.LeadPatch) (domain.Lead, error)
	SetStatus(ctx context.Context, id string, status domain.Status) (domain.Lead, error)
	AddNote(ctx context.Context, id, content string, followUp *string) (domain.Lead, error)
	DeleteNote(ctx context.Context, id, noteID string)
	Delete(ctx context.Context, id string)
	Dashboard(ctx context.Context, trendDays int) (domain.Dashboard, domain.Revision)
}

// ExportServicer builds lead exports.
type ExportServicer interface {
	Export(ctx context.Context, query string, filter domain.StatusFilter) []domain.ExportRow
	CSV(rows []domain.ExportRow) []byte
	FileName(now time.Time, ext string) string
}

// Authenticator exchanges the admin password for a token and checks tokens.
type Authenticator interface {
	Login(password string) (token string, expiresAt time.Time, err error)
	middleware.TokenVerifier
}

// Server holds the dependencies shared by every handler.
type Server struct {
	leads    LeadServicer
	export   ExportServicer
	auth     Authenticator
	validate *validator.Validate
	log      *slog.Logger
	now      func() time.Time
}

// NewServer constructs the Server with all its dependencies.
// log may be nil, in which case slog.Default() is used.
func NewServer(leads LeadServicer, export ExportServicer, auth Authenticator, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		leads:    leads,
		export:   export,
		auth:     auth,
		validate: newValidator(),
		log:      log,
		now:      time.Now,
	}
}

// Routes returns the API router. Public routes are open; everything under the
// admin group requires a bearer token from POST /admin/login.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)
	r.Post("/contact", s.SubmitContact)
	r.Post("/admin/login", s.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAdminAuth(s.auth))

		r.Get("/sources", s.ListSources)
		r.Get("/dashboard", s.GetDashboard)
		r.Get("/export", s.GetExport)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", s.ListLeads)
			r.Post("/", s.CreateLead)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetLead)
				r.Put("/", s.UpdateLead)
				r.Delete("/", s.DeleteLead)
				r.Put("/status", s.SetLeadStatus)
				r.Post("/notes", s.AddNote)
				r.Delete("/notes/{noteID}", s.DeleteNote)
			})
		})
	})

	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
