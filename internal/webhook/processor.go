// Package webhook turns transaction webhooks into stored transactions and
// drives their simulated settlement.
package webhook

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"go.uber.org/zap"
)

const (
	MessageDuplicate = "Duplicate request - returning existing transaction"
	MessageCreated   = "Transaction created and processing started"
)

// TransactionStore is the slice of the transaction repository the processor needs.
type TransactionStore interface {
	StatusUpdater
	Append(ctx context.Context, tx types.Transaction) error
	FindByIdempotencyKey(ctx context.Context, key string) (*types.Transaction, error)
	FindByStatus(ctx context.Context, statuses ...types.ProcessStatus) ([]types.Transaction, error)
}

type IdempotencyLedger interface {
	HasProcessed(ctx context.Context, key string) (bool, error)
	MarkProcessed(ctx context.Context, key string) error
}

type Options struct {
	StrictValidation bool
	Now              func() time.Time
}

type Result struct {
	// Transaction is nil only when a consumed key no longer resolves to a
	// stored transaction.
	Transaction *types.Transaction
	Duplicate   bool
	Message     string
	// Handle is nil for duplicates.
	Handle *Handle
}

type Processor struct {
	mu        sync.Mutex
	store     TransactionStore
	ledger    IdempotencyLedger
	scheduler *Scheduler
	strict    bool
	now       func() time.Time
}

func NewProcessor(store TransactionStore, ledger IdempotencyLedger, scheduler *Scheduler, opts Options) *Processor {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Processor{
		store:     store,
		ledger:    ledger,
		scheduler: scheduler,
		strict:    opts.StrictValidation,
		now:       now,
	}
}

// Submit records the webhook's transaction exactly once per idempotency key
// and starts its settlement. Redelivery of a consumed key returns the stored
// transaction without side effects.
func (p *Processor) Submit(ctx context.Context, payload types.WebhookPayload) (*Result, error) {
	if err := p.validate(payload); err != nil {
		return nil, err
	}

	p.mu.Lock()
	seen, err := p.ledger.HasProcessed(ctx, payload.IdempotencyKey)
	if err != nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("check idempotency key: %w", err)
	}

	if seen {
		existing, err := p.store.FindByIdempotencyKey(ctx, payload.IdempotencyKey)
		p.mu.Unlock()
		if err != nil {
			return nil, fmt.Errorf("load transaction for duplicate key: %w", err)
		}
		if existing == nil {
			utils.Zlog.Warn("Idempotency key consumed but transaction is missing",
				zap.String("idempotencyKey", payload.IdempotencyKey))
		} else {
			utils.Zlog.Info("Duplicate webhook delivery",
				zap.String("idempotencyKey", payload.IdempotencyKey),
				zap.String("transactionId", existing.ID))
		}
		return &Result{Transaction: existing, Duplicate: true, Message: MessageDuplicate}, nil
	}

	tx := newTransaction(payload, p.now())
	if err := p.store.Append(ctx, tx); err != nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("store transaction: %w", err)
	}
	markErr := p.ledger.MarkProcessed(ctx, payload.IdempotencyKey)
	p.mu.Unlock()

	// The record exists either way; settle it rather than strand it in pending.
	handle := p.scheduler.Schedule(tx.ID)

	if markErr != nil {
		return nil, fmt.Errorf("mark idempotency key %s: %w", payload.IdempotencyKey, markErr)
	}

	utils.Zlog.Info("Transaction created",
		zap.String("transactionId", tx.ID),
		zap.String("userId", tx.UserID),
		zap.String("idempotencyKey", tx.IdempotencyKey))

	return &Result{Transaction: &tx, Message: MessageCreated, Handle: handle}, nil
}

// Resume reschedules transactions left unsettled by a previous run.
func (p *Processor) Resume(ctx context.Context) (int, error) {
	unsettled, err := p.store.FindByStatus(ctx, types.StatusPending, types.StatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("find unsettled transactions: %w", err)
	}
	for _, tx := range unsettled {
		p.scheduler.schedule(tx.ID, tx.Status == types.StatusProcessing)
	}
	if len(unsettled) > 0 {
		utils.Zlog.Info("Resumed unsettled transactions", zap.Int("count", len(unsettled)))
	}
	return len(unsettled), nil
}

func newTransaction(payload types.WebhookPayload, now time.Time) types.Transaction {
	var metadata map[string]interface{}
	if len(payload.Data.Metadata) > 0 {
		metadata = make(map[string]interface{}, len(payload.Data.Metadata))
		for k, v := range payload.Data.Metadata {
			metadata[k] = v
		}
	}
	return types.Transaction{
		ID:             utils.NewID("txn_"),
		Type:           payload.Data.Type,
		Amount:         payload.Data.Amount,
		Currency:       payload.Data.Currency,
		Status:         types.StatusPending,
		Timestamp:      now.UTC(),
		UserID:         payload.Data.UserID,
		Metadata:       metadata,
		IdempotencyKey: payload.IdempotencyKey,
	}
}

func (p *Processor) validate(payload types.WebhookPayload) error {
	invalid := func(field, msg string) error {
		return &types.ValidationError{Field: field, Message: msg, Kind: types.ErrInvalidPayload}
	}

	if strings.TrimSpace(payload.IdempotencyKey) == "" {
		return invalid("idempotencyKey", "is required")
	}
	if !p.strict {
		return nil
	}

	data := payload.Data
	if !data.Type.Valid() {
		return invalid("type", fmt.Sprintf("must be one of %v", types.TransactionTypes))
	}
	if !data.Amount.IsPositive() {
		return invalid("amount", "must be positive")
	}
	if strings.TrimSpace(data.Currency) == "" {
		return invalid("currency", "is required")
	}
	if strings.TrimSpace(data.UserID) == "" {
		return invalid("userId", "is required")
	}
	return nil
}
