package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Conversly/analytics-dashboard/internal/api"
	"github.com/Conversly/analytics-dashboard/internal/app"
	"github.com/Conversly/analytics-dashboard/internal/config"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.InitLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	stack, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}

	if _, err := stack.Processor.Resume(ctx); err != nil {
		logger.Error("Failed to resume unsettled transactions", zap.Error(err))
	}

	router := api.NewRouter(api.Dependencies{
		Store:          stack.Store,
		Users:          stack.Users,
		Sessions:       stack.Sessions,
		Transactions:   stack.Transactions,
		Analytics:      stack.Analytics,
		Processor:      stack.Processor,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	srv := api.NewServer(":"+cfg.Port, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("Server stopped unexpectedly", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	stack.Close(shutdownCtx)
}
