package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/webhook"
	"github.com/shopspring/decimal"
)

func TestTransactionService_RemoteSubmitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	remote, backend := newRemote(t)
	client := newLocal(t, time.Hour, nil)
	svc := NewTransactionService(remote, client.transactions, client.processor)

	payload := SimulatedPayload("u1", time.Now())
	first, err := svc.Submit(ctx, payload)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if first.Local || first.Duplicate || first.Transaction.Status != types.StatusPending {
		t.Fatalf("unexpected first submission %+v", first)
	}

	second, err := svc.Submit(ctx, payload)
	if err != nil {
		t.Fatalf("Submit again: %v", err)
	}
	if !second.Duplicate || second.Transaction.ID != first.Transaction.ID {
		t.Fatalf("redelivery should return the same transaction, got %+v", second)
	}

	stored, _ := backend.transactions.All(ctx)
	if len(stored) != 1 {
		t.Errorf("server stored %d transactions, want 1", len(stored))
	}
	if local, _ := client.transactions.All(ctx); len(local) != 0 {
		t.Errorf("remote path must not write locally, found %d", len(local))
	}

	got, err := svc.Get(ctx, first.Transaction.ID)
	if err != nil || got == nil || got.ID != first.Transaction.ID {
		t.Fatalf("Get: %+v %v", got, err)
	}
}

func TestTransactionService_FallbackProcessesLocally(t *testing.T) {
	ctx := context.Background()
	logs := observeWarnings(t)
	client := newLocal(t, 10*time.Millisecond, webhook.NewRandomSettlement(webhook.DefaultSuccessRate))
	svc := NewTransactionService(newBrokenRemote(t), client.transactions, client.processor)

	payload := types.WebhookPayload{
		Event: types.EventTransactionCreated,
		Data: types.TransactionData{
			Type:     types.TransactionDeposit,
			Amount:   decimal.NewFromInt(500),
			Currency: "USD",
			UserID:   "u1",
		},
		IdempotencyKey: "k1",
	}

	sub, err := svc.Submit(ctx, payload)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !sub.Local || sub.Handle == nil {
		t.Fatalf("expected a local submission with a handle, got %+v", sub)
	}
	if sub.Transaction.Status != types.StatusPending {
		t.Errorf("want pending immediately, got %s", sub.Transaction.Status)
	}
	if logs.Len() == 0 {
		t.Error("fallback should log a warning")
	}

	select {
	case <-sub.Handle.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("local transaction did not settle")
	}

	stored, _ := svc.Get(ctx, sub.Transaction.ID)
	if stored == nil || !stored.Status.IsTerminal() {
		t.Fatalf("want terminal status after the delay, got %+v", stored)
	}

	dup, err := svc.Submit(ctx, payload)
	if err != nil || !dup.Duplicate || dup.Transaction.ID != sub.Transaction.ID {
		t.Fatalf("local redelivery: %+v %v", dup, err)
	}
	all, _ := client.transactions.All(ctx)
	if len(all) != 1 {
		t.Errorf("want exactly one stored transaction for k1, got %d", len(all))
	}
}

func TestTransactionService_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	client := newLocal(t, time.Hour, nil)
	svc := NewTransactionService(nil, client.transactions, client.processor)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"txn_old", "txn_new", "txn_mid"} {
		offsets := []time.Duration{0, 2 * time.Hour, time.Hour}
		tx := types.Transaction{ID: id, UserID: "u1", Status: types.StatusCompleted, Timestamp: base.Add(offsets[i])}
		if err := client.transactions.Append(ctx, tx); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	_ = client.transactions.Append(ctx, types.Transaction{ID: "txn_other", UserID: "u2", Timestamp: base})

	txs, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"txn_new", "txn_mid", "txn_old"}
	if len(txs) != len(want) {
		t.Fatalf("want %d transactions, got %d", len(want), len(txs))
	}
	for i, id := range want {
		if txs[i].ID != id {
			t.Errorf("position %d: want %s got %s", i, id, txs[i].ID)
		}
	}

	all, _ := svc.List(ctx, "")
	if len(all) != 4 {
		t.Errorf("empty user should list everything, got %d", len(all))
	}
}

func TestSimulatedPayload(t *testing.T) {
	now := time.Now()
	for i := 0; i < 100; i++ {
		p := SimulatedPayload("u1", now)
		if p.Data.Amount.LessThan(decimal.NewFromInt(100)) || !p.Data.Amount.LessThan(decimal.NewFromInt(10100)) {
			t.Fatalf("amount out of range: %s", p.Data.Amount)
		}
		if !p.Data.Type.Valid() || p.Data.Currency != "USD" || p.Data.UserID != "u1" {
			t.Fatalf("unexpected payload %+v", p.Data)
		}
		if p.IdempotencyKey == "" || p.Event != types.EventTransactionCreated {
			t.Fatalf("missing key or event: %+v", p)
		}
	}

	req := SimulatedPayload("u9", now).ToRequest()
	if req.Metadata["userId"] != "u9" || req.Metadata["type"] == "" {
		t.Errorf("request metadata should carry user and type: %v", req.Metadata)
	}
}
