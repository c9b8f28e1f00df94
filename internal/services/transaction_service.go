// Package services orchestrates store mutations with event publishing.
package services

import (
	"context"
	"log/slog"

	"github.com/yashx007/Finance-App/internal/amqp"
	"github.com/yashx007/Finance-App/internal/core"
	"github.com/yashx007/Finance-App/internal/store"
)

// EventPublisher announces transaction mutations. Publishing is best
// effort: failures are logged and never fail the request.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, id, action string) error
}

// TransactionService fronts the transaction store and publishes a mutation
// event after every successful write.
type TransactionService struct {
	store     store.TransactionStore
	publisher EventPublisher
}

func NewTransactionService(s store.TransactionStore, p EventPublisher) *TransactionService {
	return &TransactionService{store: s, publisher: p}
}

func (s *TransactionService) List(ctx context.Context, f core.Filter) ([]core.Transaction, error) {
	return s.store.List(ctx, f)
}

func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.Get(ctx, id)
}

func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.store.Create(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, created.ID, amqp.ActionCreated)
	return created, nil
}

func (s *TransactionService) Update(ctx context.Context, id string, p core.TransactionPatch) (core.Transaction, error) {
	updated, err := s.store.Update(ctx, id, p)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, id, amqp.ActionUpdated)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, id, amqp.ActionDeleted)
	return nil
}

func (s *TransactionService) publish(ctx context.Context, id, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, id, action); err != nil {
		// The write already succeeded; the worker's periodic recompute
		// covers missed events.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "action", action, "error", err)
	}
}
