package dashboard

import (
	"context"
	"math/rand/v2"
	"net/url"
	"sort"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/client"
	"github.com/Conversly/analytics-dashboard/internal/repository"
	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"github.com/Conversly/analytics-dashboard/internal/webhook"
	"github.com/shopspring/decimal"
)

// Submission is the outcome of delivering one webhook.
type Submission struct {
	Transaction *types.Transaction
	Message     string
	Duplicate   bool
	// Local is set when the webhook was processed in this process.
	Local bool
	// Handle tracks settlement of a locally created transaction.
	Handle *webhook.Handle
}

type TransactionService struct {
	api       *client.Client
	repo      *repository.TransactionRepository
	processor *webhook.Processor
	now       func() time.Time
}

func NewTransactionService(api *client.Client, repo *repository.TransactionRepository, processor *webhook.Processor) *TransactionService {
	return &TransactionService{api: api, repo: repo, processor: processor, now: time.Now}
}

// List returns the user's transactions newest first. An empty userID lists all.
func (s *TransactionService) List(ctx context.Context, userID string) ([]types.Transaction, error) {
	txs, err := client.WithFallback(ctx, "transactions.list",
		func(ctx context.Context) ([]types.Transaction, error) {
			var opts []client.RequestOption
			if userID != "" {
				opts = append(opts, client.WithQuery("userId", userID))
			}
			var resp types.TransactionsResponse
			if err := s.api.Get(ctx, "/api/transactions", &resp, opts...); err != nil {
				return nil, err
			}
			return resp.Transactions, nil
		},
		func(ctx context.Context) ([]types.Transaction, error) {
			if userID == "" {
				return s.repo.All(ctx)
			}
			return s.repo.FindByUser(ctx, userID)
		})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
	return txs, nil
}

// Get returns nil when no transaction has that id.
func (s *TransactionService) Get(ctx context.Context, id string) (*types.Transaction, error) {
	return client.WithFallback(ctx, "transactions.get",
		func(ctx context.Context) (*types.Transaction, error) {
			var resp types.TransactionResponse
			if err := s.api.Get(ctx, "/api/transactions/"+url.PathEscape(id), &resp); err != nil {
				return nil, err
			}
			return &resp.Transaction, nil
		},
		func(ctx context.Context) (*types.Transaction, error) {
			return s.repo.FindByID(ctx, id)
		})
}

// Create delivers a simulated webhook for userID.
func (s *TransactionService) Create(ctx context.Context, userID string) (*Submission, error) {
	return s.Submit(ctx, SimulatedPayload(userID, s.now()))
}

// Submit delivers payload to the remote webhook endpoint, or processes it
// locally when the API is unreachable.
func (s *TransactionService) Submit(ctx context.Context, payload types.WebhookPayload) (*Submission, error) {
	return client.WithFallback(ctx, "transactions.webhook",
		func(ctx context.Context) (*Submission, error) {
			var resp types.WebhookResponse
			if err := s.api.Post(ctx, "/v1/webhooks/transactions", payload.ToRequest(), &resp); err != nil {
				return nil, err
			}
			return &Submission{
				Transaction: &resp.Transaction,
				Message:     resp.Message,
				Duplicate:   resp.Message == webhook.MessageDuplicate,
			}, nil
		},
		func(ctx context.Context) (*Submission, error) {
			res, err := s.processor.Submit(ctx, payload)
			if err != nil {
				return nil, err
			}
			return &Submission{
				Transaction: res.Transaction,
				Message:     res.Message,
				Duplicate:   res.Duplicate,
				Local:       true,
				Handle:      res.Handle,
			}, nil
		})
}

// SimulatedPayload builds a random transaction webhook: a whole amount in
// [100, 10100) USD of a random type, under a fresh idempotency key.
func SimulatedPayload(userID string, now time.Time) types.WebhookPayload {
	return types.WebhookPayload{
		Event: types.EventTransactionCreated,
		Data: types.TransactionData{
			Type:     types.TransactionTypes[rand.IntN(len(types.TransactionTypes))],
			Amount:   decimal.NewFromInt(int64(rand.IntN(10000) + 100)),
			Currency: "USD",
			UserID:   userID,
		},
		IdempotencyKey: utils.NewIdempotencyKey(now),
		Timestamp:      now.UTC(),
	}
}
