// Package worker maintains the precomputed monthly rollup series consumed
// by the dashboard's fast path.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yashx007/Finance-App/internal/amqp"
	"github.com/yashx007/Finance-App/internal/core"
	"github.com/yashx007/Finance-App/internal/store"
)

// RollupWorker recomputes the monthly series whenever a transaction event
// arrives. A full recompute keeps the rollups correct across updates and
// deletes without tracking deltas.
type RollupWorker struct {
	txs     store.TransactionStore
	rollups store.RollupStore
}

func NewRollupWorker(txs store.TransactionStore, rollups store.RollupStore) *RollupWorker {
	return &RollupWorker{txs: txs, rollups: rollups}
}

// HandleEvent processes one transaction mutation event.
func (w *RollupWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"id", msg.ID,
		"action", msg.Action)

	return w.Recompute(ctx)
}

// Recompute rebuilds the rollup table from the full transaction set. Also
// run on a ticker so events lost while the worker was down are absorbed.
func (w *RollupWorker) Recompute(ctx context.Context) error {
	txs, err := w.txs.List(ctx, core.Filter{SortBy: core.DefaultSortField, Order: core.OrderAsc})
	if err != nil {
		return fmt.Errorf("list transactions for rollup: %w", err)
	}

	series := core.MonthlySeries(txs)
	if err := w.rollups.ReplaceRollups(ctx, series); err != nil {
		return fmt.Errorf("replace rollups: %w", err)
	}

	slog.InfoContext(ctx, "Monthly rollups recomputed",
		"transactions", len(txs),
		"buckets", len(series))
	return nil
}
