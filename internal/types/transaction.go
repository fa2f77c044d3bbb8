package types

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, matching the remote API.
	decimal.MarshalJSONWithoutQuotes = true
}

// ====== ENUMS ======

type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionTransfer   TransactionType = "transfer"
)

// TransactionTypes lists every accepted transaction type.
var TransactionTypes = []TransactionType{TransactionDeposit, TransactionWithdrawal, TransactionTransfer}

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionDeposit, TransactionWithdrawal, TransactionTransfer:
		return true
	default:
		return false
	}
}

type ProcessStatus string

const (
	StatusPending    ProcessStatus = "pending"
	StatusProcessing ProcessStatus = "processing"
	StatusCompleted  ProcessStatus = "completed"
	StatusFailed     ProcessStatus = "failed"
)

// IsTerminal reports whether no further transition can happen.
func (s ProcessStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo enforces pending -> processing -> completed|failed.
// Re-applying the current status is not a transition.
func (s ProcessStatus) CanTransitionTo(next ProcessStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// ====== CORE TYPES ======

type Transaction struct {
	ID             string                 `json:"id"`
	Type           TransactionType        `json:"type"`
	Amount         decimal.Decimal        `json:"amount"`
	Currency       string                 `json:"currency"`
	Status         ProcessStatus          `json:"status"`
	Timestamp      time.Time              `json:"timestamp"`
	UserID         string                 `json:"userId"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	IdempotencyKey string                 `json:"idempotencyKey,omitempty"`
}

// TransactionData is the business part of a webhook payload. Any id, status or
// timestamp sent by the caller is accepted on the wire and discarded on create.
type TransactionData struct {
	ID        string                 `json:"id,omitempty"`
	Type      TransactionType        `json:"type"`
	Amount    decimal.Decimal        `json:"amount"`
	Currency  string                 `json:"currency"`
	Status    ProcessStatus          `json:"status,omitempty"`
	Timestamp *time.Time             `json:"timestamp,omitempty"`
	UserID    string                 `json:"userId"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type WebhookPayload struct {
	Event          string          `json:"event"`
	Data           TransactionData `json:"data"`
	IdempotencyKey string          `json:"idempotencyKey"`
	Timestamp      time.Time       `json:"timestamp"`
}

const EventTransactionCreated = "transaction.created"

// WebhookRequest is the body accepted by POST /v1/webhooks/transactions.
// The transaction's user and type travel inside metadata.
type WebhookRequest struct {
	Amount         decimal.Decimal        `json:"amount"`
	Currency       string                 `json:"currency"`
	IdempotencyKey string                 `json:"idempotencyKey" binding:"required"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// ToPayload lifts a webhook request into the processor's payload shape.
func (r WebhookRequest) ToPayload(now time.Time) WebhookPayload {
	data := TransactionData{
		Amount:   r.Amount,
		Currency: r.Currency,
		Metadata: r.Metadata,
	}
	if userID, ok := r.Metadata["userId"].(string); ok {
		data.UserID = userID
	}
	if txType, ok := r.Metadata["type"].(string); ok {
		data.Type = TransactionType(txType)
	}
	return WebhookPayload{
		Event:          EventTransactionCreated,
		Data:           data,
		IdempotencyKey: r.IdempotencyKey,
		Timestamp:      now,
	}
}

// ToRequest flattens a payload into the webhook request body, carrying the
// user and type inside metadata.
func (p WebhookPayload) ToRequest() WebhookRequest {
	metadata := make(map[string]interface{}, len(p.Data.Metadata)+2)
	for k, v := range p.Data.Metadata {
		metadata[k] = v
	}
	if p.Data.UserID != "" {
		metadata["userId"] = p.Data.UserID
	}
	if p.Data.Type != "" {
		metadata["type"] = string(p.Data.Type)
	}
	return WebhookRequest{
		Amount:         p.Data.Amount,
		Currency:       p.Data.Currency,
		IdempotencyKey: p.IdempotencyKey,
		Metadata:       metadata,
	}
}
