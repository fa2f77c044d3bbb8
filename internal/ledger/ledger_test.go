package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/Conversly/analytics-dashboard/internal/loaders"
)

func TestLedger_MarkAndCheck(t *testing.T) {
	ctx := context.Background()
	l := New(loaders.NewMemoryStore())

	seen, err := l.HasProcessed(ctx, "k1")
	if err != nil {
		t.Fatalf("HasProcessed: %v", err)
	}
	if seen {
		t.Fatal("fresh ledger should not contain k1")
	}

	if err := l.MarkProcessed(ctx, "k1"); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}

	seen, _ = l.HasProcessed(ctx, "k1")
	if !seen {
		t.Fatal("expected k1 to be processed")
	}
	if seen, _ = l.HasProcessed(ctx, "k2"); seen {
		t.Fatal("k2 was never marked")
	}
}

func TestLedger_MarkTwiceDoesNotDuplicate(t *testing.T) {
	ctx := context.Background()
	store := loaders.NewMemoryStore()
	l := New(store)

	for i := 0; i < 3; i++ {
		if err := l.MarkProcessed(ctx, "k1"); err != nil {
			t.Fatalf("MarkProcessed: %v", err)
		}
	}

	keys := loaders.GetJSON(ctx, store, loaders.KeyProcessedKeys, []string{})
	if len(keys) != 1 {
		t.Fatalf("expected one entry, got %v", keys)
	}
	if n, err := l.Len(ctx); err != nil || n != 1 {
		t.Fatalf("expected Len 1, got %d (err %v)", n, err)
	}
}

func TestLedger_SurvivesNewInstanceOnSameStore(t *testing.T) {
	ctx := context.Background()
	store := loaders.NewMemoryStore()

	if err := New(store).MarkProcessed(ctx, "k1"); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}

	seen, _ := New(store).HasProcessed(ctx, "k1")
	if !seen {
		t.Fatal("expected key visible through a second ledger on the same store")
	}
}

type unreadableStore struct {
	*loaders.MemoryStore
}

func (unreadableStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection reset")
}

func TestLedger_ReadFailureIsReported(t *testing.T) {
	ctx := context.Background()
	store := unreadableStore{MemoryStore: loaders.NewMemoryStore()}
	if err := store.MemoryStore.Set(ctx, loaders.KeyProcessedKeys, []byte(`["k1"]`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	l := New(store)

	if _, err := l.HasProcessed(ctx, "k1"); err == nil {
		t.Fatal("expected HasProcessed to return the read error")
	}
	if err := l.MarkProcessed(ctx, "k2"); err == nil {
		t.Fatal("expected MarkProcessed to return the read error")
	}
	if _, err := l.Len(ctx); err == nil {
		t.Fatal("expected Len to return the read error")
	}

	keys := loaders.GetJSON(ctx, store.MemoryStore, loaders.KeyProcessedKeys, []string{})
	if len(keys) != 1 || keys[0] != "k1" {
		t.Fatalf("ledger contents changed: %v", keys)
	}
}
