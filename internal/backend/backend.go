// Package backend selects and wires the data backend at startup.
package backend

import (
	"fmt"
	"log/slog"

	"github.com/yashx007/Finance-App/internal/storage"
	"github.com/yashx007/Finance-App/internal/store"
	"github.com/yashx007/Finance-App/internal/store/memory"
)

// Backend bundles every store port a binary may need.
type Backend interface {
	store.TransactionStore
	store.UserStore
	store.RollupStore
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

func (t Type) IsValid() bool {
	return t == Memory || t == SQLite
}

// Config holds what backend construction needs.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// New creates the configured backend and its cleanup function.
func New(config Config, logger *slog.Logger) (Backend, CleanupFunc, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !config.Type.IsValid() {
		return nil, nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLite:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite repository: %w", err)
		}
		logger.Info("Initialized SQLite backend", "path", config.SQLiteDBPath)
		return repo, repo.Close, nil
	default:
		logger.Info("Initialized memory backend")
		return memory.New(), func() error { return nil }, nil
	}
}
