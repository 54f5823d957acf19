package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"tokenbrain/internal/domain"
	"tokenbrain/internal/storage"
)

// AnalysisStore implements storage.AnalysisStore using PostgreSQL.
type AnalysisStore struct {
	pool *Pool
}

// NewAnalysisStore creates a new AnalysisStore.
func NewAnalysisStore(pool *Pool) *AnalysisStore {
	return &AnalysisStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AnalysisStore = (*AnalysisStore)(nil)

const analysisColumns = `
	id, chat_id, user_id, address, symbol, risk_level, recommendation,
	summary, reasons, explanation_source, sources, analyzed_at
`

// Insert adds a new record. Returns ErrDuplicateKey if the id exists.
func (s *AnalysisStore) Insert(ctx context.Context, r *domain.AnalysisRecord) (err error) {
	if err := storage.ValidateRecord(r); err != nil {
		return err
	}

	start := time.Now()
	defer func() { observe("insert_analysis", start, err) }()

	query := `INSERT INTO analyses (` + analysisColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = s.pool.Exec(ctx, query,
		r.ID,
		r.ChatID,
		r.UserID,
		r.Address,
		r.Symbol,
		string(r.Level),
		string(r.Recommendation),
		r.Summary,
		nonNil(r.Reasons),
		string(r.ExplanationSource),
		nonNil(r.Sources),
		r.AnalyzedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// GetByID retrieves a record by id. Returns ErrNotFound if not exists.
func (s *AnalysisStore) GetByID(ctx context.Context, id uuid.UUID) (r *domain.AnalysisRecord, err error) {
	start := time.Now()
	defer func() { observe("get_analysis", start, err) }()

	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`

	r, err = scanAnalysis(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get analysis by id: %w", err)
	}
	return r, nil
}

// ListByChat returns the latest records of a chat, newest first.
func (s *AnalysisStore) ListByChat(ctx context.Context, chatID int64, limit int) ([]*domain.AnalysisRecord, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses
		WHERE chat_id = $1
		ORDER BY analyzed_at DESC, seq DESC
		LIMIT $2`
	return s.list(ctx, "list_analyses_by_chat", query, chatID, storage.NormalizeLimit(limit))
}

// ListByAddress returns the latest records of a token, newest first.
func (s *AnalysisStore) ListByAddress(ctx context.Context, address string, limit int) ([]*domain.AnalysisRecord, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses
		WHERE address = $1
		ORDER BY analyzed_at DESC, seq DESC
		LIMIT $2`
	return s.list(ctx, "list_analyses_by_address", query, address, storage.NormalizeLimit(limit))
}

func (s *AnalysisStore) list(ctx context.Context, op, query string, args ...any) (result []*domain.AnalysisRecord, err error) {
	start := time.Now()
	defer func() { observe(op, start, err) }()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}

	return result, nil
}

// scanAnalysis scans a single row into AnalysisRecord.
func scanAnalysis(row pgx.Row) (*domain.AnalysisRecord, error) {
	var (
		r                        domain.AnalysisRecord
		level, rec, explanSource string
	)

	err := row.Scan(
		&r.ID,
		&r.ChatID,
		&r.UserID,
		&r.Address,
		&r.Symbol,
		&level,
		&rec,
		&r.Summary,
		&r.Reasons,
		&explanSource,
		&r.Sources,
		&r.AnalyzedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Level = domain.RiskLevel(level)
	r.Recommendation = domain.Recommendation(rec)
	r.ExplanationSource = domain.ExplanationSource(explanSource)
	r.AnalyzedAt = r.AnalyzedAt.UTC()
	return &r, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
