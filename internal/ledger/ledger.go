// Package ledger records which webhook idempotency keys have already produced
// a transaction. Entries are never expired or removed.
package ledger

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Conversly/analytics-dashboard/internal/loaders"
)

type Ledger struct {
	store loaders.Store
	mu    sync.Mutex
}

func New(store loaders.Store) *Ledger {
	return &Ledger{store: store}
}

// HasProcessed reports whether key already produced a transaction. A store
// read failure is returned rather than reported as "not seen".
func (l *Ledger) HasProcessed(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys, err := l.load(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(keys, key), nil
}

// MarkProcessed records key. Marking an existing key is a no-op.
func (l *Ledger) MarkProcessed(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys, err := l.load(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(keys, key) {
		return nil
	}
	return loaders.SetJSON(ctx, l.store, loaders.KeyProcessedKeys, append(keys, key))
}

// Len returns the number of consumed keys.
func (l *Ledger) Len(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys, err := l.load(ctx)
	return len(keys), err
}

func (l *Ledger) load(ctx context.Context) ([]string, error) {
	keys, err := loaders.LoadJSON(ctx, l.store, loaders.KeyProcessedKeys, []string{})
	if err != nil {
		return nil, fmt.Errorf("load idempotency ledger: %w", err)
	}
	return keys, nil
}
