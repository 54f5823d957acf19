package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenbrain/internal/domain"
	"tokenbrain/internal/storage"
	"tokenbrain/internal/storage/migrations"
	"tokenbrain/internal/storage/postgres"
)

func testRecord(chatID int64, address string, at time.Time) *domain.AnalysisRecord {
	return &domain.AnalysisRecord{
		ID:                uuid.New(),
		ChatID:            chatID,
		UserID:            99,
		Address:           address,
		Symbol:            ptr("WIF"),
		Level:             domain.RiskHigh,
		Recommendation:    domain.RecommendationAvoid,
		Summary:           "High risk token",
		Reasons:           []string{"Low liquidity", "New token"},
		ExplanationSource: domain.SourceFallback,
		Sources:           []string{"helius", "rpc"},
		AnalyzedAt:        at,
	}
}

func TestAnalysisStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewAnalysisStore(pool)

	rec := testRecord(10, "MintAddr1", time.Unix(1700000000, 0).UTC())
	require.NoError(t, store.Insert(ctx, rec))

	got, err := store.GetByID(ctx, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.ChatID, got.ChatID)
	assert.Equal(t, rec.UserID, got.UserID)
	assert.Equal(t, rec.Address, got.Address)
	require.NotNil(t, got.Symbol)
	assert.Equal(t, "WIF", *got.Symbol)
	assert.Equal(t, domain.RiskHigh, got.Level)
	assert.Equal(t, domain.RecommendationAvoid, got.Recommendation)
	assert.Equal(t, rec.Reasons, got.Reasons)
	assert.Equal(t, domain.SourceFallback, got.ExplanationSource)
	assert.Equal(t, rec.Sources, got.Sources)
	assert.True(t, rec.AnalyzedAt.Equal(got.AnalyzedAt))
}

func TestAnalysisStore_NilSymbolAndEmptyLists(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewAnalysisStore(pool)

	rec := testRecord(0, "MintAddr2", time.Now().UTC())
	rec.Symbol = nil
	rec.Reasons = nil
	rec.Sources = nil
	require.NoError(t, store.Insert(ctx, rec))

	got, err := store.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Symbol)
	assert.Empty(t, got.Reasons)
	assert.Empty(t, got.Sources)
}

func TestAnalysisStore_Errors(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewAnalysisStore(pool)

	rec := testRecord(1, "MintDup", time.Now().UTC())
	require.NoError(t, store.Insert(ctx, rec))

	err := store.Insert(ctx, rec)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = store.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = store.Insert(ctx, &domain.AnalysisRecord{ID: uuid.New()})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestAnalysisStore_Lists(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewAnalysisStore(pool)
	base := time.Unix(1700000000, 0).UTC()

	a := testRecord(5, "MintA", base)
	b := testRecord(5, "MintB", base.Add(time.Hour))
	c := testRecord(6, "MintA", base.Add(2*time.Hour))
	for _, r := range []*domain.AnalysisRecord{a, b, c} {
		require.NoError(t, store.Insert(ctx, r))
	}

	byChat, err := store.ListByChat(ctx, 5, 10)
	require.NoError(t, err)
	require.Len(t, byChat, 2)
	assert.Equal(t, b.ID, byChat[0].ID)
	assert.Equal(t, a.ID, byChat[1].ID)

	limited, err := store.ListByChat(ctx, 5, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, b.ID, limited[0].ID)

	byAddr, err := store.ListByAddress(ctx, "MintA", 0)
	require.NoError(t, err)
	require.Len(t, byAddr, 2)
	assert.Equal(t, c.ID, byAddr[0].ID)

	none, err := store.ListByChat(ctx, 404, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRunPostgresMigrations_Idempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	applied, err := migrations.RunPostgresMigrations(context.Background(), pool)
	require.NoError(t, err)
	assert.Empty(t, applied, "second run must not reapply files")
}
