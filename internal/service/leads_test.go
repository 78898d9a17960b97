package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/leadbook/backend/internal/domain"
	"github.com/pkordes/leadbook/backend/internal/service"
)

// mockPersister is a hand-written test double for service.Persister.
// Saves are recorded; load returns whatever the test configured.
type mockPersister struct {
	mu      sync.Mutex
	load    func(ctx context.Context) (domain.Leads, bool)
	saveErr error
	saved   []domain.Leads
}

func (m *mockPersister) Save(_ context.Context, leads domain.Leads) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, leads)
	return m.saveErr
}

func (m *mockPersister) Load(ctx context.Context) (domain.Leads, bool) {
	if m.load == nil {
		return nil, false
	}
	return m.load(ctx)
}

func (m *mockPersister) saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func (m *mockPersister) lastSaved() domain.Leads {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[len(m.saved)-1]
}

// compile-time check: mockPersister must satisfy service.Persister.
var _ service.Persister = (*mockPersister)(nil)

// ---- helpers ---------------------------------------------------------------

var fixedNow = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newService(t *testing.T, p *mockPersister, initial domain.Leads) *service.LeadService {
	t.Helper()
	svc := service.NewLeadService(p,
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithIDGenerator(sequentialIDs()),
	)
	svc.Init(context.Background(), initial)
	return svc
}

func strPtr(s string) *string { return &s }

func existing(id, name string, status domain.Status) domain.Lead {
	return domain.Lead{
		ID:        id,
		Name:      name,
		Email:     name + "@example.com",
		Source:    "Referral",
		Status:    status,
		CreatedAt: fixedNow.Add(-48 * time.Hour),
		Notes:     []domain.Note{},
	}
}

// ---- Init tests ------------------------------------------------------------

func TestLeadService_Init_UsesStoredLeads(t *testing.T) {
	stored := domain.Leads{existing("a", "ann", domain.StatusContacted)}
	p := &mockPersister{load: func(context.Context) (domain.Leads, bool) { return stored, true }}

	svc := service.NewLeadService(p)
	seeded := svc.Init(context.Background(), domain.Leads{existing("x", "seed", domain.StatusNew)})

	assert.False(t, seeded)
	got, rev := svc.Snapshot()
	assert.Equal(t, stored, got)
	assert.Equal(t, uint64(1), rev.Seq)
	assert.NotEmpty(t, rev.Epoch)
	assert.Zero(t, p.saves(), "loaded data must not be written back")
}

func TestLeadService_Init_StoredEmptyCollectionWins(t *testing.T) {
	p := &mockPersister{load: func(context.Context) (domain.Leads, bool) { return domain.Leads{}, true }}

	svc := service.NewLeadService(p)
	seeded := svc.Init(context.Background(), domain.Leads{existing("x", "seed", domain.StatusNew)})

	assert.False(t, seeded)
	got, _ := svc.Snapshot()
	assert.Empty(t, got)
}

func TestLeadService_Init_FallsBackToDefaults(t *testing.T) {
	p := &mockPersister{}
	defaults := domain.Leads{existing("x", "seed", domain.StatusNew)}

	svc := service.NewLeadService(p)
	seeded := svc.Init(context.Background(), defaults)

	assert.True(t, seeded)
	got, _ := svc.Snapshot()
	assert.Equal(t, defaults, got)
	require.Equal(t, 1, p.saves())
	assert.Equal(t, defaults, p.lastSaved())
}

func TestLeadService_Init_NilDefaultsGivesEmptyStore(t *testing.T) {
	svc := newService(t, &mockPersister{}, nil)

	got, _ := svc.Snapshot()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- Submit / Create tests -------------------------------------------------

func TestLeadService_Submit_CreatesNewLeadWithInitialNote(t *testing.T) {
	p := &mockPersister{}
	svc := newService(t, p, domain.Leads{existing("a", "ann", domain.StatusContacted)})

	got := svc.Submit(context.Background(), domain.Submission{
		Name:    "Jane",
		Email:   "jane@example.com",
		Message: "  Need help  ",
	})

	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, domain.StatusNew, got.Status)
	assert.Equal(t, domain.PublicSource, got.Source)
	assert.Equal(t, fixedNow, got.CreatedAt)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "Initial message: Need help", got.Notes[0].Content)

	leads, _ := svc.Snapshot()
	require.Len(t, leads, 2)
	assert.Equal(t, got.ID, leads[0].ID, "new leads go to the head")
	assert.Equal(t, leads, p.lastSaved())
}

func TestLeadService_Submit_BlankMessageAddsNoNote(t *testing.T) {
	svc := newService(t, &mockPersister{}, nil)

	got := svc.Submit(context.Background(), domain.Submission{Name: "Jane", Email: "j@x.com", Message: "   "})

	assert.Empty(t, got.Notes)
}

func TestLeadService_Create_KeepsAdminFields(t *testing.T) {
	svc := newService(t, &mockPersister{}, nil)

	got := svc.Create(context.Background(), domain.LeadFields{
		Name:   "Bob",
		Email:  "bob@example.com",
		Phone:  strPtr("555-0100"),
		Source: "Trade Show",
		Status: domain.StatusContacted,
	})

	assert.Equal(t, domain.StatusContacted, got.Status)
	assert.Equal(t, "Trade Show", got.Source)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "555-0100", *got.Phone)
	assert.NotNil(t, got.Notes)
	assert.Empty(t, got.Notes)
}

func TestLeadService_Create_SaveFailureKeepsLeadInMemory(t *testing.T) {
	p := &mockPersister{saveErr: errors.New("disk full")}
	svc := newService(t, p, nil)

	got := svc.Create(context.Background(), domain.LeadFields{Name: "Bob", Email: "b@x.com", Status: domain.StatusNew})

	_, err := svc.Get(context.Background(), got.ID)
	assert.NoError(t, err)
}

// ---- Update / SetStatus tests ----------------------------------------------

func TestLeadService_Update_PreservesIdentityAndNotes(t *testing.T) {
	l := existing("a", "ann", domain.StatusNew)
	l.Notes = []domain.Note{{ID: "n1", Content: "hi", CreatedAt: fixedNow}}
	svc := newService(t, &mockPersister{}, domain.Leads{l})

	converted := domain.StatusConverted
	got, err := svc.Update(context.Background(), "a", domain.LeadPatch{
		Name:   strPtr("Ann B"),
		Email:  strPtr("annb@example.com"),
		Source: strPtr("Referral"),
		Status: &converted,
	})

	require.NoError(t, err)
	assert.Equal(t, "Ann B", got.Name)
	assert.Equal(t, domain.StatusConverted, got.Status)
	assert.Equal(t, l.CreatedAt, got.CreatedAt)
	assert.Equal(t, l.Notes, got.Notes)
}

func TestLeadService_Update_NotFound(t *testing.T) {
	p := &mockPersister{}
	svc := newService(t, p, domain.Leads{existing("a", "ann", domain.StatusNew)})
	before := p.saves()

	_, err := svc.Update(context.Background(), "missing", domain.LeadPatch{Name: strPtr("x")})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, before, p.saves())
}

func TestLeadService_Update_PartialKeepsStatusAndSource(t *testing.T) {
	l := existing("a", "ann", domain.StatusConverted)
	l.Source = "Referral"
	p := &mockPersister{}
	svc := newService(t, p, domain.Leads{l})

	got, err := svc.Update(context.Background(), "a", domain.LeadPatch{Name: strPtr("Ann B")})

	require.NoError(t, err)
	assert.Equal(t, "Ann B", got.Name)
	assert.Equal(t, domain.StatusConverted, got.Status)
	assert.Equal(t, "Referral", got.Source)
	saved := p.lastSaved()
	require.Len(t, saved, 1)
	assert.Equal(t, domain.StatusConverted, saved[0].Status)
}

func TestLeadService_SetStatus(t *testing.T) {
	svc := newService(t, &mockPersister{}, domain.Leads{existing("a", "ann", domain.StatusNew)})

	got, err := svc.SetStatus(context.Background(), "a", domain.StatusContacted)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusContacted, got.Status)
	assert.Equal(t, "ann", got.Name)
}

func TestLeadService_SetStatus_SameStatusIsNoOp(t *testing.T) {
	p := &mockPersister{}
	svc := newService(t, p, domain.Leads{existing("a", "ann", domain.StatusNew)})
	_, rev := svc.Snapshot()
	saves := p.saves()

	got, err := svc.SetStatus(context.Background(), "a", domain.StatusNew)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, got.Status)
	_, after := svc.Snapshot()
	assert.Equal(t, rev, after)
	assert.Equal(t, saves, p.saves())
}

func TestLeadService_SetStatus_NotFound(t *testing.T) {
	svc := newService(t, &mockPersister{}, nil)

	_, err := svc.SetStatus(context.Background(), "missing", domain.StatusNew)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Notes tests -----------------------------------------------------------

func TestLeadService_AddNote_AppendsInOrder(t *testing.T) {
	svc := newService(t, &mockPersister{}, domain.Leads{existing("a", "ann", domain.StatusNew)})
	ctx := context.Background()

	_, err := svc.AddNote(ctx, "a", "first", nil)
	require.NoError(t, err)
	got, err := svc.AddNote(ctx, "a", "second", strPtr("2024-03-20"))
	require.NoError(t, err)

	require.Len(t, got.Notes, 2)
	assert.Equal(t, "first", got.Notes[0].Content)
	last := got.Notes[1]
	assert.Equal(t, "second", last.Content)
	require.NotNil(t, last.FollowUpDate)
	assert.Equal(t, "2024-03-20", *last.FollowUpDate)
	assert.Equal(t, fixedNow, last.CreatedAt)
	assert.NotEqual(t, got.Notes[0].ID, last.ID)
}

func TestLeadService_AddNote_NotFound(t *testing.T) {
	svc := newService(t, &mockPersister{}, nil)

	_, err := svc.AddNote(context.Background(), "missing", "x", nil)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLeadService_DeleteNote_RoundTrip(t *testing.T) {
	svc := newService(t, &mockPersister{}, domain.Leads{existing("a", "ann", domain.StatusNew)})
	ctx := context.Background()
	before, _ := svc.Get(ctx, "a")

	withNote, err := svc.AddNote(ctx, "a", "temp", nil)
	require.NoError(t, err)
	svc.DeleteNote(ctx, "a", withNote.Notes[len(withNote.Notes)-1].ID)

	after, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, before.Notes, after.Notes)
}

func TestLeadService_DeleteNote_UnknownIDsAreIgnored(t *testing.T) {
	p := &mockPersister{}
	svc := newService(t, p, domain.Leads{existing("a", "ann", domain.StatusNew)})
	saves := p.saves()

	svc.DeleteNote(context.Background(), "a", "nope")
	svc.DeleteNote(context.Background(), "nope", "nope")

	assert.Equal(t, saves, p.saves())
}

// ---- Delete tests ----------------------------------------------------------

func TestLeadService_Delete(t *testing.T) {
	p := &mockPersister{}
	svc := newService(t, p, domain.Leads{
		existing("a", "ann", domain.StatusNew),
		existing("b", "bob", domain.StatusNew),
	})

	svc.Delete(context.Background(), "a")

	leads, _ := svc.Snapshot()
	require.Len(t, leads, 1)
	assert.Equal(t, "b", leads[0].ID)
	_, err := svc.Get(context.Background(), "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLeadService_Delete_LastLeadIsPersisted(t *testing.T) {
	p := &mockPersister{}
	svc := newService(t, p, domain.Leads{existing("a", "ann", domain.StatusNew)})

	svc.Delete(context.Background(), "a")

	assert.Empty(t, p.lastSaved())
}

func TestLeadService_Delete_Idempotent(t *testing.T) {
	p := &mockPersister{}
	svc := newService(t, p, domain.Leads{existing("a", "ann", domain.StatusNew)})
	ctx := context.Background()

	svc.Delete(ctx, "a")
	saves := p.saves()
	svc.Delete(ctx, "a")

	assert.Equal(t, saves, p.saves())
}

// ---- Read side tests -------------------------------------------------------

func TestLeadService_SnapshotIsStableAcrossMutations(t *testing.T) {
	svc := newService(t, &mockPersister{}, domain.Leads{existing("a", "ann", domain.StatusNew)})
	snap, rev := svc.Snapshot()

	_, err := svc.SetStatus(context.Background(), "a", domain.StatusConverted)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNew, snap[0].Status)
	_, after := svc.Snapshot()
	assert.Greater(t, after.Seq, rev.Seq)
	assert.Equal(t, rev.Epoch, after.Epoch)
}

func TestLeadService_RevisionDiffersAcrossInstances(t *testing.T) {
	// Two instances over the same stored data, e.g. before and after a restart.
	var stored domain.Leads
	p := &mockPersister{load: func(context.Context) (domain.Leads, bool) {
		return stored, stored != nil
	}}

	first := newService(t, p, domain.Leads{})
	first.Create(context.Background(), domain.LeadFields{Name: "A", Email: "a@x.com", Status: domain.StatusNew})
	_, firstRev := first.Snapshot()
	stored = p.lastSaved()

	second := newService(t, p, nil)
	second.Create(context.Background(), domain.LeadFields{Name: "B", Email: "b@x.com", Status: domain.StatusNew})
	leads, secondRev := second.Snapshot()

	require.Len(t, leads, 2)
	assert.Equal(t, firstRev.Seq, secondRev.Seq)
	assert.NotEqual(t, firstRev, secondRev)
}

func TestLeadService_List_Filters(t *testing.T) {
	svc := newService(t, &mockPersister{}, domain.Leads{
		existing("a", "ann", domain.StatusNew),
		existing("b", "bob", domain.StatusConverted),
	})

	got, _ := svc.List(context.Background(), "BOB", domain.FilterAll)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got, _ = svc.List(context.Background(), "", domain.StatusFilter(domain.StatusNew))
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestLeadService_Dashboard(t *testing.T) {
	svc := newService(t, &mockPersister{}, domain.Leads{
		existing("a", "ann", domain.StatusNew),
		existing("b", "bob", domain.StatusConverted),
	})

	d, _ := svc.Dashboard(context.Background(), domain.DefaultTrendDays)

	assert.Equal(t, 2, d.Stats.Total)
	assert.Equal(t, "50.0", d.Stats.ConversionRate)
	assert.Len(t, d.Trend, domain.DefaultTrendDays)
}

func TestLeadService_ConcurrentCreates(t *testing.T) {
	p := &mockPersister{}
	svc := newService(t, p, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc.Create(context.Background(), domain.LeadFields{
				Name:   fmt.Sprintf("lead %d", i),
				Email:  fmt.Sprintf("l%d@example.com", i),
				Status: domain.StatusNew,
			})
		}(i)
	}
	wg.Wait()

	leads, _ := svc.Snapshot()
	assert.Len(t, leads, 20)
	assert.Len(t, p.lastSaved(), 20, "the last save holds every lead")
}
