package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/yashx007/Finance-App/internal/amqp"
	"github.com/yashx007/Finance-App/internal/config"
	applog "github.com/yashx007/Finance-App/internal/log"
	"github.com/yashx007/Finance-App/internal/storage"
	"github.com/yashx007/Finance-App/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting finance-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker writes rollups where the API reads them, so it always runs
	// against SQLite regardless of the API's configured backend.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	rollupWorker := worker.NewRollupWorker(repo, repo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Recompute once on startup so a fresh deployment serves rollups
	// before the first event or tick arrives.
	if err := rollupWorker.Recompute(ctx); err != nil {
		logger.Error("Startup rollup recompute failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	// Event-driven recompute. The broker is optional; without it the
	// periodic tick below is the only trigger.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client, relying on periodic recompute", "error", err)
		} else {
			defer amqpClient.Close()
			g.Go(func() error {
				err := amqpClient.ConsumeTransactionEvents(ctx, rollupWorker.HandleEvent)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		}
	}

	// Periodic recompute covers events lost while the broker or worker
	// was down.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.RollupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := rollupWorker.Recompute(ctx); err != nil {
					logger.Error("Periodic rollup recompute failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker terminated with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
