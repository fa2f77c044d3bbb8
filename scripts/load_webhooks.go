package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/app"
	"github.com/Conversly/analytics-dashboard/internal/config"
	"github.com/Conversly/analytics-dashboard/internal/dashboard"
	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"go.uber.org/zap"
)

func main() {
	jsonFile := flag.String("file", "webhooks.json", "Path to a JSON file with one payload or an array of payloads")
	apiURL := flag.String("api", "", "API base URL (overrides API_BASE_URL; \"off\" processes locally)")
	batchSize := flag.Int("batch", 10, "Payloads per batch")
	pause := flag.Duration("pause", 500*time.Millisecond, "Pause between batches")
	flag.Parse()

	if *batchSize <= 0 {
		fmt.Println("Error: -batch must be positive")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	switch *apiURL {
	case "":
	case "off":
		cfg.APIBaseURL = ""
	default:
		cfg.APIBaseURL = *apiURL
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	utils.SetLogger(logger)

	ctx := context.Background()

	file, err := os.Open(*jsonFile)
	if err != nil {
		logger.Fatal("Failed to open payload file", zap.String("file", *jsonFile), zap.Error(err))
	}
	payloads, err := dashboard.ReadPayloads(file, time.Now())
	file.Close()
	if err != nil {
		logger.Fatal("Failed to read payloads", zap.Error(err))
	}
	logger.Info("Loaded payloads", zap.Int("count", len(payloads)))

	stack, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	defer stack.Close(shutdownCtx)

	svc := stack.TransactionService()
	created, duplicates, failed := 0, 0, 0

	for i := 0; i < len(payloads); i += *batchSize {
		end := i + *batchSize
		if end > len(payloads) {
			end = len(payloads)
		}
		logger.Info("Submitting batch", zap.Int("batchStart", i), zap.Int("batchEnd", end))

		c, d, f := submitBatch(ctx, svc, payloads[i:end], logger)
		created += c
		duplicates += d
		failed += f

		if end < len(payloads) {
			time.Sleep(*pause)
		}
	}

	logger.Info("Completed submitting webhooks",
		zap.Int("total", len(payloads)),
		zap.Int("created", created),
		zap.Int("duplicates", duplicates),
		zap.Int("failed", failed))
}

func submitBatch(ctx context.Context, svc *dashboard.TransactionService, batch []types.WebhookPayload, logger *zap.Logger) (created, duplicates, failed int) {
	for _, p := range batch {
		sub, err := svc.Submit(ctx, p)
		if err != nil {
			logger.Error("Failed to submit webhook",
				zap.String("idempotencyKey", p.IdempotencyKey),
				zap.Error(err))
			failed++
			continue
		}
		if sub.Duplicate {
			duplicates++
			continue
		}
		created++
		if sub.Transaction != nil {
			logger.Debug("Webhook accepted",
				zap.String("transactionId", sub.Transaction.ID),
				zap.Bool("local", sub.Local))
		}
	}
	return created, duplicates, failed
}
