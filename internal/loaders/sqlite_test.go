package loaders

import (
	"context"
	"path/filepath"
	"testing"
)

func createTestSQLiteStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("Failed to create SQLiteStore: %v", err)
	}
	return store
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.db")
	ctx := context.Background()

	store := createTestSQLiteStore(t, path)
	if err := SetJSON(ctx, store, KeyProcessedKeys, []string{"k1", "k2"}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := createTestSQLiteStore(t, path)
	defer reopened.Close()

	got := GetJSON(ctx, reopened, KeyProcessedKeys, []string{})
	if len(got) != 2 || got[0] != "k1" || got[1] != "k2" {
		t.Fatalf("expected persisted keys, got %v", got)
	}
}

func TestSQLiteStore_SetOverwritesAndRemove(t *testing.T) {
	store := createTestSQLiteStore(t, filepath.Join(t.TempDir(), "store.db"))
	defer store.Close()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte(`"one"`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, "k", []byte(`"two"`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, found, err := store.Get(ctx, "k")
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if string(value) != `"two"` {
		t.Fatalf("expected overwritten value, got %s", value)
	}

	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, found, _ := store.Get(ctx, "k"); found {
		t.Fatal("expected key to be removed")
	}
}

func TestSQLiteStore_MissingKey(t *testing.T) {
	store := createTestSQLiteStore(t, filepath.Join(t.TempDir(), "store.db"))
	defer store.Close()

	_, found, err := store.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected absent key")
	}
}
