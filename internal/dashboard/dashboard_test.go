package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/api"
	"github.com/Conversly/analytics-dashboard/internal/client"
	"github.com/Conversly/analytics-dashboard/internal/ledger"
	"github.com/Conversly/analytics-dashboard/internal/loaders"
	"github.com/Conversly/analytics-dashboard/internal/repository"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"github.com/Conversly/analytics-dashboard/internal/webhook"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// local is one process's view: its store, repositories and webhook pipeline.
type local struct {
	store        *loaders.MemoryStore
	users        *repository.UserRepository
	sessions     *repository.SessionRepository
	transactions *repository.TransactionRepository
	analytics    *repository.AnalyticsRepository
	processor    *webhook.Processor
}

func newLocal(t *testing.T, delay time.Duration, policy webhook.SettlementPolicy) *local {
	t.Helper()
	store := loaders.NewMemoryStore()
	txRepo := repository.NewTransactionRepository(store)
	scheduler := webhook.NewScheduler(txRepo, webhook.SchedulerOptions{Workers: 2, Delay: delay, Policy: policy})
	scheduler.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		scheduler.Stop(ctx)
	})
	return &local{
		store:        store,
		users:        repository.NewUserRepository(store),
		sessions:     repository.NewSessionRepository(store),
		transactions: txRepo,
		analytics:    repository.NewAnalyticsRepository(store),
		processor:    webhook.NewProcessor(txRepo, ledger.New(store), scheduler, webhook.Options{}),
	}
}

// newRemote serves the API stub backed by its own store.
func newRemote(t *testing.T) (*client.Client, *local) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	backend := newLocal(t, time.Hour, nil)
	server := httptest.NewServer(api.NewRouter(api.Dependencies{
		Store:        backend.store,
		Users:        backend.users,
		Sessions:     backend.sessions,
		Transactions: backend.transactions,
		Analytics:    backend.analytics,
		Processor:    backend.processor,
	}))
	t.Cleanup(server.Close)
	return client.New(server.URL, time.Second), backend
}

// newBrokenRemote answers every request with a 500.
func newBrokenRemote(t *testing.T) *client.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
	}))
	t.Cleanup(server.Close)
	return client.New(server.URL, time.Second)
}

func observeWarnings(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	t.Cleanup(utils.SetLogger(zap.New(core)))
	return logs
}
