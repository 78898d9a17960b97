// Package service holds the lead store: the single owner of the lead
// collection. Mutations are serialised, each one installs a fresh immutable
// snapshot and then hands it to persistence. Readers never block on storage.
package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/leadbook/backend/internal/domain"
	"github.com/pkordes/leadbook/backend/internal/metrics"
)

// Persister is the storage port the store writes through.
// *repo.Storage satisfies it.
type Persister interface {
	Save(ctx context.Context, leads domain.Leads) error
	Load(ctx context.Context) (domain.Leads, bool)
}

// Option customises a LeadService.
type Option func(*LeadService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *LeadService) { s.now = now }
}

// WithIDGenerator replaces the uuid-based id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *LeadService) { s.newID = newID }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *LeadService) { s.log = log }
}

// WithMetrics records mutation outcomes and the current lead count.
func WithMetrics(m *metrics.LeadMetrics) Option {
	return func(s *LeadService) { s.metrics = m }
}

// LeadService is the lead store.
type LeadService struct {
	writeMu sync.Mutex // held for a whole mutation, including its save

	mu       sync.RWMutex // guards leads and revision
	leads    domain.Leads
	revision uint64
	epoch    string

	store   Persister
	newID   func() string
	now     func() time.Time
	log     *slog.Logger
	metrics *metrics.LeadMetrics
}

// NewLeadService builds an empty store over p. Call Init before serving.
func NewLeadService(p Persister, opts ...Option) *LeadService {
	s := &LeadService{
		leads: domain.Leads{},
		epoch: newEpoch(),
		store: p,
		newID: uuid.NewString,
		now:   time.Now,
		log:   slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Init loads the persisted collection. When nothing usable is stored the
// defaults are installed instead and written back. It reports whether the
// defaults were used.
func (s *LeadService) Init(ctx context.Context, defaults domain.Leads) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if leads, ok := s.store.Load(ctx); ok {
		s.install(leads)
		s.log.InfoContext(ctx, "leads loaded", "count", len(leads))
		return false
	}
	if defaults == nil {
		defaults = domain.Leads{}
	}
	s.install(defaults.Clone())
	s.log.InfoContext(ctx, "no stored leads, using defaults", "count", len(defaults))
	_ = s.store.Save(ctx, s.leads)
	return true
}

// Snapshot returns the current collection and its revision.
// The collection must be treated as read-only.
func (s *LeadService) Snapshot() (domain.Leads, domain.Revision) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leads, domain.Revision{Epoch: s.epoch, Seq: s.revision}
}

// List returns the leads matching query and filter, most recent first.
func (s *LeadService) List(_ context.Context, query string, filter domain.StatusFilter) (domain.Leads, domain.Revision) {
	leads, rev := s.Snapshot()
	return domain.FilterLeads(leads, query, filter), rev
}

// Get returns one lead by id.
func (s *LeadService) Get(_ context.Context, id string) (domain.Lead, error) {
	leads, _ := s.Snapshot()
	l, ok := leads.Find(id)
	if !ok {
		return domain.Lead{}, domain.ErrNotFound
	}
	return l, nil
}

// Dashboard computes every dashboard view over the current snapshot.
func (s *LeadService) Dashboard(_ context.Context, trendDays int) (domain.Dashboard, domain.Revision) {
	leads, rev := s.Snapshot()
	return domain.BuildDashboard(leads, s.now(), trendDays), rev
}

// Submit records a landing-page submission as a new lead at the head of the
// collection.
func (s *LeadService) Submit(ctx context.Context, sub domain.Submission) domain.Lead {
	sub.Message = strings.TrimSpace(sub.Message)
	var created domain.Lead
	s.mutate(ctx, "submit", func(cur domain.Leads) (domain.Leads, outcome) {
		created = domain.NewPublicLead(sub, s.newID(), s.newID(), s.now())
		return cur.Prepend(created), applied
	})
	return created
}

// Create adds an admin-entered lead at the head of the collection.
func (s *LeadService) Create(ctx context.Context, f domain.LeadFields) domain.Lead {
	var created domain.Lead
	s.mutate(ctx, "create", func(cur domain.Leads) (domain.Leads, outcome) {
		created = domain.NewLead(f, s.newID(), s.now())
		return cur.Prepend(created), applied
	})
	return created
}

// Update applies a partial edit to a lead; fields left nil in p are kept.
func (s *LeadService) Update(ctx context.Context, id string, p domain.LeadPatch) (domain.Lead, error) {
	next, res := s.mutate(ctx, "update", func(cur domain.Leads) (domain.Leads, outcome) {
		out, ok := cur.Update(id, p)
		return out, found(ok)
	})
	return lookup(next, id, res)
}

// SetStatus moves a lead to status. Setting the status it already has is
// accepted and changes nothing.
func (s *LeadService) SetStatus(ctx context.Context, id string, status domain.Status) (domain.Lead, error) {
	next, res := s.mutate(ctx, "set_status", func(cur domain.Leads) (domain.Leads, outcome) {
		l, ok := cur.Find(id)
		if !ok {
			return cur, missing
		}
		if l.Status == status {
			return cur, unchanged
		}
		out, _ := cur.SetStatus(id, status)
		return out, applied
	})
	return lookup(next, id, res)
}

// AddNote appends a note to a lead and returns the updated lead; the new note
// is its last one. followUp, when set, must already be a valid date.
func (s *LeadService) AddNote(ctx context.Context, id, content string, followUp *string) (domain.Lead, error) {
	next, res := s.mutate(ctx, "add_note", func(cur domain.Leads) (domain.Leads, outcome) {
		n := domain.Note{
			ID:           s.newID(),
			Content:      content,
			CreatedAt:    s.now(),
			FollowUpDate: followUp,
		}
		out, ok := cur.AddNote(id, n)
		return out, found(ok)
	})
	return lookup(next, id, res)
}

// DeleteNote removes a note. Unknown lead or note ids are ignored.
func (s *LeadService) DeleteNote(ctx context.Context, id, noteID string) {
	s.mutate(ctx, "delete_note", func(cur domain.Leads) (domain.Leads, outcome) {
		l, ok := cur.Find(id)
		if !ok {
			return cur, missing
		}
		out := cur.DeleteNote(id, noteID)
		if after, _ := out.Find(id); len(after.Notes) == len(l.Notes) {
			return cur, unchanged
		}
		return out, applied
	})
}

// Delete removes a lead and its notes. Unknown ids are ignored.
func (s *LeadService) Delete(ctx context.Context, id string) {
	s.mutate(ctx, "delete", func(cur domain.Leads) (domain.Leads, outcome) {
		out := cur.Delete(id)
		if len(out) == len(cur) {
			return cur, missing
		}
		return out, applied
	})
}

// ---- internals -------------------------------------------------------------

type outcome int

const (
	missing outcome = iota
	unchanged
	applied
)

func found(ok bool) outcome {
	if ok {
		return applied
	}
	return missing
}

// mutate runs fn against the current snapshot under the write lock. An applied
// result is installed before it is saved, so readers see it even if the save
// fails. The save outlives ctx cancellation.
func (s *LeadService) mutate(ctx context.Context, op string, fn func(domain.Leads) (domain.Leads, outcome)) (domain.Leads, outcome) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur, _ := s.Snapshot()
	next, res := fn(cur)
	s.metrics.ObserveMutation(op, res != missing)
	if res != applied {
		return cur, res
	}
	s.install(next)
	_ = s.store.Save(context.WithoutCancel(ctx), next)
	return next, res
}

func (s *LeadService) install(leads domain.Leads) {
	s.mu.Lock()
	s.leads = leads
	s.revision++
	s.mu.Unlock()
	s.metrics.SetLeadCount(len(leads))
}

// newEpoch returns a short random instance id.
func newEpoch() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func lookup(leads domain.Leads, id string, res outcome) (domain.Lead, error) {
	if res == missing {
		return domain.Lead{}, domain.ErrNotFound
	}
	l, _ := leads.Find(id)
	return l, nil
}
