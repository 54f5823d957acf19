package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"tokenbrain/internal/domain"
	"tokenbrain/internal/storage"
)

// AnalysisStore is an in-memory implementation of storage.AnalysisStore.
type AnalysisStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*domain.AnalysisRecord
	order   []uuid.UUID // insertion order, breaks AnalyzedAt ties
}

// NewAnalysisStore creates a new in-memory analysis store.
func NewAnalysisStore() *AnalysisStore {
	return &AnalysisStore{
		records: make(map[uuid.UUID]*domain.AnalysisRecord),
	}
}

// Compile-time interface check.
var _ storage.AnalysisStore = (*AnalysisStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if the id exists.
func (s *AnalysisStore) Insert(_ context.Context, r *domain.AnalysisRecord) error {
	if err := storage.ValidateRecord(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[r.ID]; exists {
		return storage.ErrDuplicateKey
	}

	s.records[r.ID] = copyRecord(r)
	s.order = append(s.order, r.ID)
	return nil
}

// GetByID retrieves a record by id. Returns ErrNotFound if not exists.
func (s *AnalysisStore) GetByID(_ context.Context, id uuid.UUID) (*domain.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.records[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyRecord(r), nil
}

// ListByChat returns the latest records of a chat, newest first.
func (s *AnalysisStore) ListByChat(_ context.Context, chatID int64, limit int) ([]*domain.AnalysisRecord, error) {
	return s.list(limit, func(r *domain.AnalysisRecord) bool { return r.ChatID == chatID }), nil
}

// ListByAddress returns the latest records of a token, newest first.
func (s *AnalysisStore) ListByAddress(_ context.Context, address string, limit int) ([]*domain.AnalysisRecord, error) {
	return s.list(limit, func(r *domain.AnalysisRecord) bool { return r.Address == address }), nil
}

func (s *AnalysisStore) list(limit int, match func(*domain.AnalysisRecord) bool) []*domain.AnalysisRecord {
	limit = storage.NormalizeLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Walk newest insert first so the stable sort keeps that order on equal times.
	var result []*domain.AnalysisRecord
	for i := len(s.order) - 1; i >= 0; i-- {
		r := s.records[s.order[i]]
		if match(r) {
			result = append(result, copyRecord(r))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AnalyzedAt.After(result[j].AnalyzedAt)
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func copyRecord(r *domain.AnalysisRecord) *domain.AnalysisRecord {
	c := *r
	if r.Symbol != nil {
		sym := *r.Symbol
		c.Symbol = &sym
	}
	c.Reasons = append([]string(nil), r.Reasons...)
	c.Sources = append([]string(nil), r.Sources...)
	return &c
}
