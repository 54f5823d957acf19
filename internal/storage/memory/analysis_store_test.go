package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"tokenbrain/internal/domain"
	"tokenbrain/internal/storage"
)

func newRecord(chatID int64, address string, at time.Time) *domain.AnalysisRecord {
	sym := "BONK"
	return &domain.AnalysisRecord{
		ID:                uuid.New(),
		ChatID:            chatID,
		UserID:            42,
		Address:           address,
		Symbol:            &sym,
		Level:             domain.RiskMedium,
		Recommendation:    domain.RecommendationCaution,
		Summary:           "summary",
		Reasons:           []string{"a", "b"},
		ExplanationSource: domain.SourceLLM,
		Sources:           []string{"mock"},
		AnalyzedAt:        at,
	}
}

func TestAnalysisStore_InsertAndGetByID(t *testing.T) {
	store := NewAnalysisStore()
	ctx := context.Background()

	rec := newRecord(1, "mint1", time.Unix(1704067200, 0).UTC())
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Address != "mint1" {
		t.Errorf("Address mismatch: got %s, want mint1", got.Address)
	}
	if *got.Symbol != "BONK" {
		t.Errorf("Symbol mismatch: got %s, want BONK", *got.Symbol)
	}
	if len(got.Reasons) != 2 {
		t.Errorf("expected 2 reasons, got %d", len(got.Reasons))
	}
}

func TestAnalysisStore_DuplicateKey(t *testing.T) {
	store := NewAnalysisStore()
	ctx := context.Background()

	rec := newRecord(1, "mint1", time.Now())
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err := store.Insert(ctx, rec)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestAnalysisStore_InvalidInput(t *testing.T) {
	store := NewAnalysisStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil record: expected ErrInvalidInput, got %v", err)
	}

	rec := newRecord(1, "", time.Now())
	if err := store.Insert(ctx, rec); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty address: expected ErrInvalidInput, got %v", err)
	}

	rec = newRecord(1, "mint", time.Now())
	rec.ID = uuid.Nil
	if err := store.Insert(ctx, rec); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil id: expected ErrInvalidInput, got %v", err)
	}
}

func TestAnalysisStore_GetByID_NotFound(t *testing.T) {
	store := NewAnalysisStore()

	_, err := store.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalysisStore_ListByChat_NewestFirst(t *testing.T) {
	store := NewAnalysisStore()
	ctx := context.Background()
	base := time.Unix(1704067200, 0).UTC()

	older := newRecord(7, "mintA", base)
	newer := newRecord(7, "mintB", base.Add(time.Minute))
	other := newRecord(8, "mintC", base.Add(2*time.Minute))

	for _, r := range []*domain.AnalysisRecord{newer, older, other} {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.ListByChat(ctx, 7, 10)
	if err != nil {
		t.Fatalf("ListByChat failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Address != "mintB" || got[1].Address != "mintA" {
		t.Errorf("wrong order: %s, %s", got[0].Address, got[1].Address)
	}

	got, _ = store.ListByChat(ctx, 7, 1)
	if len(got) != 1 || got[0].Address != "mintB" {
		t.Errorf("limit 1: expected [mintB], got %v", got)
	}
}

func TestAnalysisStore_ListByAddress_TiesKeepInsertOrder(t *testing.T) {
	store := NewAnalysisStore()
	ctx := context.Background()
	at := time.Unix(1704067200, 0).UTC()

	first := newRecord(1, "mint", at)
	second := newRecord(2, "mint", at)
	_ = store.Insert(ctx, first)
	_ = store.Insert(ctx, second)

	got, err := store.ListByAddress(ctx, "mint", 0)
	if err != nil {
		t.Fatalf("ListByAddress failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID {
		t.Errorf("expected latest insert first, got %v", got)
	}
}

func TestAnalysisStore_CopyOnRead(t *testing.T) {
	store := NewAnalysisStore()
	ctx := context.Background()

	rec := newRecord(1, "mint", time.Now())
	_ = store.Insert(ctx, rec)

	rec.Reasons[0] = "mutated"
	got, _ := store.GetByID(ctx, rec.ID)
	if got.Reasons[0] != "a" {
		t.Errorf("store must copy on insert, got %q", got.Reasons[0])
	}

	*got.Symbol = "EVIL"
	again, _ := store.GetByID(ctx, rec.ID)
	if *again.Symbol != "BONK" {
		t.Errorf("store must copy on read, got %q", *again.Symbol)
	}
}
