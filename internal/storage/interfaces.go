package storage

import (
	"context"

	"github.com/google/uuid"

	"tokenbrain/internal/domain"
)

// AnalysisStore provides access to the analyses history.
type AnalysisStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if the id exists
	// and ErrInvalidInput for a nil record, nil id or empty address.
	Insert(ctx context.Context, r *domain.AnalysisRecord) error

	// GetByID retrieves a record by id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AnalysisRecord, error)

	// ListByChat returns the latest records of a chat, newest first.
	ListByChat(ctx context.Context, chatID int64, limit int) ([]*domain.AnalysisRecord, error)

	// ListByAddress returns the latest records of a token, newest first.
	ListByAddress(ctx context.Context, address string, limit int) ([]*domain.AnalysisRecord, error)
}

// DefaultListLimit is used when a non-positive limit is passed to a List method.
const DefaultListLimit = 10

// MaxListLimit caps List results.
const MaxListLimit = 100

// NormalizeLimit clamps limit into [1, MaxListLimit].
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// ValidateRecord checks the fields required for insertion.
func ValidateRecord(r *domain.AnalysisRecord) error {
	if r == nil || r.ID == uuid.Nil || r.Address == "" {
		return ErrInvalidInput
	}
	return nil
}
