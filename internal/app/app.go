// Package app assembles the local stack shared by the server, the CLI and
// the loader script.
package app

import (
	"context"
	"fmt"

	"github.com/Conversly/analytics-dashboard/internal/client"
	"github.com/Conversly/analytics-dashboard/internal/config"
	"github.com/Conversly/analytics-dashboard/internal/dashboard"
	"github.com/Conversly/analytics-dashboard/internal/ledger"
	"github.com/Conversly/analytics-dashboard/internal/loaders"
	"github.com/Conversly/analytics-dashboard/internal/repository"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"github.com/Conversly/analytics-dashboard/internal/webhook"
	"go.uber.org/zap"
)

var _ webhook.TransactionStore = (*repository.TransactionRepository)(nil)

type App struct {
	Config *config.Config
	Store  loaders.Store

	Users        *repository.UserRepository
	Sessions     *repository.SessionRepository
	Transactions *repository.TransactionRepository
	Analytics    *repository.AnalyticsRepository
	Ledger       *ledger.Ledger

	Scheduler *webhook.Scheduler
	Processor *webhook.Processor

	// API is nil when no remote base URL is configured.
	API *client.Client
}

// New opens the configured store and starts the status scheduler.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := loaders.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	return NewWithStore(cfg, store), nil
}

// NewWithStore wires the stack around an already opened store.
func NewWithStore(cfg *config.Config, store loaders.Store) *App {
	transactions := repository.NewTransactionRepository(store)
	l := ledger.New(store)

	scheduler := webhook.NewScheduler(transactions, webhook.SchedulerOptions{
		Workers:       cfg.WorkerCount,
		QueueCapacity: cfg.QueueCapacity,
		Delay:         cfg.ProcessingDelay,
		Policy:        webhook.NewRandomSettlement(cfg.SettlementSuccessRate),
	})
	scheduler.Start()

	return &App{
		Config:       cfg,
		Store:        store,
		Users:        repository.NewUserRepository(store),
		Sessions:     repository.NewSessionRepository(store),
		Transactions: transactions,
		Analytics:    repository.NewAnalyticsRepository(store),
		Ledger:       l,
		Scheduler:    scheduler,
		Processor: webhook.NewProcessor(transactions, l, scheduler, webhook.Options{
			StrictValidation: cfg.WebhookStrictValidation,
		}),
		API: client.New(cfg.APIBaseURL, cfg.RequestTimeout),
	}
}

func (a *App) AuthService() *dashboard.AuthService {
	return dashboard.NewAuthService(a.API, a.Users)
}

func (a *App) AnalyticsService() *dashboard.AnalyticsService {
	return dashboard.NewAnalyticsService(a.API, a.Analytics)
}

func (a *App) TransactionService() *dashboard.TransactionService {
	return dashboard.NewTransactionService(a.API, a.Transactions, a.Processor)
}

// Close stops the scheduler, then closes the store.
func (a *App) Close(ctx context.Context) {
	a.Scheduler.Stop(ctx)
	if err := a.Store.Close(); err != nil {
		utils.Zlog.Warn("Closing store failed", zap.Error(err))
	}
}
