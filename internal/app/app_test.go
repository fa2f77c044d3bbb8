package app

import (
	"context"
	"testing"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/config"
	"github.com/Conversly/analytics-dashboard/internal/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Store:                 config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: t.TempDir() + "/store.db"},
		ProcessingDelay:       time.Hour,
		SettlementSuccessRate: 1,
		WorkerCount:           1,
		QueueCapacity:         10,
	}
}

func TestApp_OfflineWithoutBaseURL(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close(context.Background())

	if a.API != nil {
		t.Fatal("no base url should leave the client offline")
	}
}

func TestApp_RestartResumesUnsettled(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	first, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	payload := types.WebhookPayload{
		Data:           types.TransactionData{Type: types.TransactionDeposit, Currency: "USD", UserID: "u1"},
		IdempotencyKey: "k-restart",
	}
	res, err := first.Processor.Submit(ctx, payload)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	first.Close(ctx)

	cfg.ProcessingDelay = time.Millisecond
	second, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close(ctx)

	// The ledger survived the restart.
	dup, err := second.Processor.Submit(ctx, payload)
	if err != nil || !dup.Duplicate || dup.Transaction.ID != res.Transaction.ID {
		t.Fatalf("duplicate after restart: %+v %v", dup, err)
	}

	n, err := second.Processor.Resume(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Resume: %d %v", n, err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		tx, _ := second.Transactions.FindByID(ctx, res.Transaction.ID)
		if tx != nil && tx.Status == types.StatusCompleted {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("resumed transaction never completed")
}
