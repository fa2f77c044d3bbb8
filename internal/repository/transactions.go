package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Conversly/analytics-dashboard/internal/loaders"
	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"go.uber.org/zap"
)

// TransactionRepository stores every transaction as one JSON list under
// loaders.KeyTransactions. All read-modify-write cycles hold mu.
type TransactionRepository struct {
	store loaders.Store
	mu    sync.Mutex
}

func NewTransactionRepository(store loaders.Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func (r *TransactionRepository) load(ctx context.Context) ([]types.Transaction, error) {
	all, err := loaders.LoadJSON(ctx, r.store, loaders.KeyTransactions, []types.Transaction{})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return all, nil
}

func (r *TransactionRepository) Append(ctx context.Context, tx types.Transaction) error {
	if tx.ID == "" {
		return errors.New("transaction id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range all {
		if existing.ID == tx.ID {
			return fmt.Errorf("transaction %s already exists", tx.ID)
		}
	}
	return loaders.SetJSON(ctx, r.store, loaders.KeyTransactions, append(all, tx))
}

// All returns transactions in stored order.
func (r *TransactionRepository) All(ctx context.Context) ([]types.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// FindByID returns nil when no transaction has the id.
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*types.Transaction, error) {
	return r.findFirst(ctx, func(tx types.Transaction) bool { return tx.ID == id })
}

// FindByIdempotencyKey returns nil when the key never produced a transaction.
func (r *TransactionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*types.Transaction, error) {
	if key == "" {
		return nil, nil
	}
	return r.findFirst(ctx, func(tx types.Transaction) bool { return tx.IdempotencyKey == key })
}

// FindByUser returns the user's transactions in stored order; callers sort.
func (r *TransactionRepository) FindByUser(ctx context.Context, userID string) ([]types.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := []types.Transaction{}
	for _, tx := range all {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

// FindByStatus returns transactions currently in one of the given statuses.
func (r *TransactionRepository) FindByStatus(ctx context.Context, statuses ...types.ProcessStatus) ([]types.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []types.Transaction
	for _, tx := range all {
		for _, s := range statuses {
			if tx.Status == s {
				out = append(out, tx)
				break
			}
		}
	}
	return out, nil
}

// UpdateStatus is best effort: an unknown id or a transition that would skip
// or regress a status is logged and ignored. Only storage errors are returned.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status types.ProcessStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("update status of %s: %w", id, err)
	}
	idx := -1
	for i := range all {
		if all[i].ID == id {
			idx = i
			break
		}
	}

	if idx == -1 {
		utils.Zlog.Warn("Transaction not found, skipping status update",
			zap.String("transactionId", id),
			zap.String("status", string(status)))
		return nil
	}

	current := all[idx].Status
	if !current.CanTransitionTo(status) {
		utils.Zlog.Warn("Rejected status transition",
			zap.String("transactionId", id),
			zap.String("from", string(current)),
			zap.String("to", string(status)))
		return nil
	}

	all[idx].Status = status
	if err := loaders.SetJSON(ctx, r.store, loaders.KeyTransactions, all); err != nil {
		return fmt.Errorf("update status of %s: %w", id, err)
	}

	utils.Zlog.Debug("Transaction status updated",
		zap.String("transactionId", id),
		zap.String("from", string(current)),
		zap.String("to", string(status)))
	return nil
}

func (r *TransactionRepository) findFirst(ctx context.Context, match func(types.Transaction) bool) (*types.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, tx := range all {
		if match(tx) {
			found := tx
			return &found, nil
		}
	}
	return nil, nil
}
