// Package store declares the ports the HTTP layer and workers depend on.
// Implementations live in store/memory (default, test-friendly) and in
// storage (SQLite).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/yashx007/Finance-App/internal/core"
)

// ErrEmailTaken is returned by CreateUser when the email is already
// registered.
var ErrEmailTaken = errors.New("email already registered")

// User backs the token issuance endpoints. Only the password hash is stored.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type (
	// TransactionStore is the persistent collection of transaction records.
	// List applies every active filter as a logical AND and returns records
	// in the filter's sort order, ties broken by insertion order. Create
	// assigns the id. Update and Delete return core.ErrNotFound for a
	// missing id; deleting twice yields ErrNotFound the second time.
	TransactionStore interface {
		List(ctx context.Context, f core.Filter) ([]core.Transaction, error)
		Get(ctx context.Context, id string) (core.Transaction, error)
		Create(ctx context.Context, t core.Transaction) (core.Transaction, error)
		Update(ctx context.Context, id string, p core.TransactionPatch) (core.Transaction, error)
		Delete(ctx context.Context, id string) error
	}

	// UserStore holds registered users for token issuance.
	UserStore interface {
		CreateUser(ctx context.Context, u User) (User, error)
		UserByEmail(ctx context.Context, email string) (User, error)
	}

	// RollupStore persists the worker-precomputed monthly series.
	RollupStore interface {
		ReplaceRollups(ctx context.Context, points []core.MonthlyPoint) error
		Rollups(ctx context.Context) ([]core.MonthlyPoint, error)
	}
)
