package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/leadbook/backend/internal/auth"
	"github.com/pkordes/leadbook/backend/internal/domain"
	"github.com/pkordes/leadbook/backend/internal/handler"
)

// mockLeadServicer is a test double for handler.LeadServicer.
// Set only the method fields your test needs.
type mockLeadServicer struct {
	list       func(ctx context.Context, q string, f domain.StatusFilter) (domain.Leads, domain.Revision)
	get        func(ctx context.Context, id string) (domain.Lead, error)
	submit     func(ctx context.Context, sub domain.Submission) domain.Lead
	create     func(ctx context.Context, f domain.LeadFields) domain.Lead
	update     func(ctx context.Context, id string, p domain.LeadPatch) (domain.Lead, error)
	setStatus  func(ctx context.Context, id string, s domain.Status) (domain.Lead, error)
	addNote    func(ctx context.Context, id, content string, followUp *string) (domain.Lead, error)
	deleteNote func(ctx context.Context, id, noteID string)
	delete     func(ctx context.Context, id string)
	dashboard  func(ctx context.Context, days int) (domain.Dashboard, domain.Revision)
}

func (m *mockLeadServicer) List(ctx context.Context, q string, f domain.StatusFilter) (domain.Leads, domain.Revision) {
	return m.list(ctx, q, f)
}
func (m *mockLeadServicer) Get(ctx context.Context, id string) (domain.Lead, error) {
	return m.get(ctx, id)
}
func (m *mockLeadServicer) Submit(ctx context.Context, sub domain.Submission) domain.Lead {
	return m.submit(ctx, sub)
}
func (m *mockLeadServicer) Create(ctx context.Context, f domain.LeadFields) domain.Lead {
	return m.create(ctx, f)
}
func (m *mockLeadServicer) Update(ctx context.Context, id string, p domain.LeadPatch) (domain.Lead, error) {
	return m.update(ctx, id, p)
}
func (m *mockLeadServicer) SetStatus(ctx context.Context, id string, s domain.Status) (domain.Lead, error) {
	return m.setStatus(ctx, id, s)
}
func (m *mockLeadServicer) AddNote(ctx context.Context, id, content string, followUp *string) (domain.Lead, error) {
	return m.addNote(ctx, id, content, followUp)
}
func (m *mockLeadServicer) DeleteNote(ctx context.Context, id, noteID string) {
	m.deleteNote(ctx, id, noteID)
}
func (m *mockLeadServicer) Delete(ctx context.Context, id string) {
	m.delete(ctx, id)
}
func (m *mockLeadServicer) Dashboard(ctx context.Context, days int) (domain.Dashboard, domain.Revision) {
	return m.dashboard(ctx, days)
}

// compile-time check: mockLeadServicer must satisfy handler.LeadServicer.
var _ handler.LeadServicer = (*mockLeadServicer)(nil)

// stubAuth accepts one password and one token.
type stubAuth struct{}

const (
	testPassword = "let-me-in"
	testToken    = "test-token"
)

func (stubAuth) Login(password string) (string, time.Time, error) {
	if password != testPassword {
		return "", time.Time{}, auth.ErrInvalidCredentials
	}
	return testToken, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

func (stubAuth) Verify(token string) error {
	if token != testToken {
		return auth.ErrInvalidToken
	}
	return nil
}

var _ handler.Authenticator = stubAuth{}

// ---- helpers ---------------------------------------------------------------

var fixedNow = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

// newHTTPHandler wires a Server with the given mocks into its router.
// This mirrors how main.go mounts it in production.
func newHTTPHandler(leads handler.LeadServicer, export handler.ExportServicer) http.Handler {
	srv := handler.NewServer(leads, export, stubAuth{}, slog.New(slog.DiscardHandler))
	return srv.Routes()
}

func leadFixture() domain.Lead {
	phone := "555-0100"
	return domain.Lead{
		ID:        "lead-1",
		Name:      "Sarah Johnson",
		Email:     "sarah@example.com",
		Phone:     &phone,
		Source:    "Referral",
		Status:    domain.StatusNew,
		CreatedAt: fixedNow,
		Notes:     []domain.Note{},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// adminRequest builds a request carrying the admin bearer token.
func adminRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+testToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

var errBoom = errors.New("boom")
