// finance-seed loads demo data into the configured backend: a login user
// plus a JSON file of transactions. Intended for local development and
// dashboard demos, not production.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/yashx007/Finance-App/internal/auth"
	"github.com/yashx007/Finance-App/internal/backend"
	"github.com/yashx007/Finance-App/internal/config"
	"github.com/yashx007/Finance-App/internal/core"
	applog "github.com/yashx007/Finance-App/internal/log"
	"github.com/yashx007/Finance-App/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentSeed,
	})
	applog.SetDefault(logger)

	var (
		file     = flag.String("file", "data/seed.json", "path to a JSON array of transactions")
		email    = flag.String("email", "demo@example.com", "demo user email")
		password = flag.String("password", "demo-password", "demo user password")
	)
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	db, cleanup, err := backend.New(backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	}, logger.Logger)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	}()

	ctx := context.Background()

	if err := seedUser(ctx, db, *email, *password); err != nil {
		logger.Error("Failed to seed demo user", "error", err, "email", *email)
		os.Exit(1)
	}

	count, err := seedTransactions(ctx, db, *file)
	if err != nil {
		logger.Error("Failed to seed transactions", "error", err, "file", *file)
		os.Exit(1)
	}

	logger.Info("Seed complete", "transactions", count, "user", *email)
}

func seedUser(ctx context.Context, users store.UserStore, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = users.CreateUser(ctx, store.User{Email: email, PasswordHash: hash})
	if errors.Is(err, store.ErrEmailTaken) {
		slog.Info("Demo user already exists, skipping", "email", email)
		return nil
	}
	return err
}

func seedTransactions(ctx context.Context, txs store.TransactionStore, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var records []core.Transaction
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	created := 0
	for i, t := range records {
		t.ID = ""
		if _, err := txs.Create(ctx, t); err != nil {
			return created, fmt.Errorf("create record %d: %w", i, err)
		}
		created++
	}
	return created, nil
}
