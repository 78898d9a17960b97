package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkordes/leadbook/backend/internal/domain"
	"github.com/pkordes/leadbook/backend/internal/metrics"
)

// StorageKey is the fixed key the lead collection is stored under.
const StorageKey = "crm_leads"

// Storage persists the whole lead collection as one JSON array under a fixed key.
// Failures are logged and counted here so callers can treat persistence as
// best-effort: Save reports its error, Load never does.
type Storage struct {
	kv      KV
	key     string
	log     *slog.Logger
	metrics *metrics.LeadMetrics
}

// NewStorage builds a Storage over kv using StorageKey.
// m may be nil.
func NewStorage(kv KV, log *slog.Logger, m *metrics.LeadMetrics) *Storage {
	if log == nil {
		log = slog.Default()
	}
	return &Storage{kv: kv, key: StorageKey, log: log, metrics: m}
}

// Save serialises leads and writes them under the fixed key.
// The error is already logged; callers are free to ignore it.
func (s *Storage) Save(ctx context.Context, leads domain.Leads) error {
	if leads == nil {
		leads = domain.Leads{}
	}
	b, err := json.Marshal(leads)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to encode leads", "error", err)
		s.metrics.ObserveStorage("save", "error")
		return fmt.Errorf("repo.Storage.Save: encode: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, b); err != nil {
		s.log.ErrorContext(ctx, "failed to save leads", "key", s.key, "error", err)
		s.metrics.ObserveStorage("save", "error")
		return fmt.Errorf("repo.Storage.Save: %w", err)
	}
	s.metrics.ObserveStorage("save", "ok")
	return nil
}

// Load reads the collection. ok is false when the key is absent, the stored
// text is not a valid lead array (including unknown statuses or repeated ids),
// or the backend is unavailable; callers then fall back to their defaults.
func (s *Storage) Load(ctx context.Context) (leads domain.Leads, ok bool) {
	b, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.InfoContext(ctx, "no stored leads", "key", s.key)
			s.metrics.ObserveStorage("load", "absent")
			return nil, false
		}
		s.log.ErrorContext(ctx, "failed to load leads", "key", s.key, "error", err)
		s.metrics.ObserveStorage("load", "error")
		return nil, false
	}

	if err := json.Unmarshal(b, &leads); err != nil || leads == nil {
		s.log.WarnContext(ctx, "stored leads are not valid, ignoring", "key", s.key, "error", err)
		s.metrics.ObserveStorage("load", "corrupt")
		return nil, false
	}
	if err := leads.Validate(); err != nil {
		s.log.WarnContext(ctx, "stored leads are not valid, ignoring", "key", s.key, "error", err)
		s.metrics.ObserveStorage("load", "corrupt")
		return nil, false
	}
	for i := range leads {
		if leads[i].Notes == nil {
			leads[i].Notes = []domain.Note{}
		}
	}
	s.metrics.ObserveStorage("load", "ok")
	return leads, true
}
