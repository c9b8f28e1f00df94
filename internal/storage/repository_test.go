package storage

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/yashx007/Finance-App/internal/core"
	"github.com/yashx007/Finance-App/internal/store"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seed(t *testing.T, r *SQLiteRepository) []core.Transaction {
	t.Helper()
	ctx := context.Background()
	input := []core.Transaction{
		{Date: "2024-01-15", Amount: core.Money{Cents: 10000}, Category: "Revenue", Status: "Paid", UserID: "u1"},
		{Date: "2024-01-20", Amount: core.Money{Cents: 4000}, Category: "Expense", Status: "Pending", UserID: "u2"},
		{Date: "2024-02-01", Amount: core.Money{Cents: 6000}, Category: "Revenue", Status: "Paid", UserID: "u1"},
	}
	out := make([]core.Transaction, 0, len(input))
	for _, tx := range input {
		created, err := r.Create(ctx, tx)
		if err != nil {
			t.Fatalf("seed create: %v", err)
		}
		out = append(out, created)
	}
	return out
}

func TestListFiltersAndSort(t *testing.T) {
	r := newRepo(t)
	seed(t, r)
	ctx := context.Background()

	t.Run("no constraints, default order", func(t *testing.T) {
		got, err := r.List(ctx, core.FilterFromValues(url.Values{}))
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		if got[0].Date != "2024-02-01" {
			t.Fatalf("default sort must be date desc, got first %s", got[0].Date)
		}
	})

	t.Run("status equality", func(t *testing.T) {
		got, err := r.List(ctx, core.FilterFromValues(url.Values{"status": {"Pending"}}))
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].Status != "Pending" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("amount range", func(t *testing.T) {
		got, err := r.List(ctx, core.FilterFromValues(url.Values{
			"minAmount": {"40"}, "maxAmount": {"60"},
		}))
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
	})

	t.Run("single bound ignored", func(t *testing.T) {
		got, err := r.List(ctx, core.FilterFromValues(url.Values{"maxAmount": {"1"}}))
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("single bound must not filter, len = %d", len(got))
		}
	})

	t.Run("search case-insensitive", func(t *testing.T) {
		got, err := r.List(ctx, core.FilterFromValues(url.Values{"search": {"PEND"}}))
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].Status != "Pending" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("sort amount asc", func(t *testing.T) {
		got, err := r.List(ctx, core.FilterFromValues(url.Values{
			"sortBy": {"amount"}, "order": {"asc"},
		}))
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if got[0].Amount.Cents != 4000 || got[2].Amount.Cents != 10000 {
			t.Fatalf("unexpected order: %+v", got)
		}
	})
}

func TestCRUDLifecycle(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, core.Transaction{
		Date: "2024-04-01", Amount: core.Money{Cents: 1500}, Category: "Expense", Status: "Paid", UserID: "u7",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("id not assigned")
	}

	got, err := r.Get(ctx, created.ID)
	if err != nil || got.Amount.Cents != 1500 {
		t.Fatalf("get: %+v (%v)", got, err)
	}

	cents := core.Money{Cents: 2000}
	updated, err := r.Update(ctx, created.ID, core.TransactionPatch{Amount: &cents})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.Cents != 2000 || updated.Status != "Paid" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	if err := r.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.Delete(ctx, created.ID); err != core.ErrNotFound {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
	if _, err := r.Get(ctx, created.ID); err != core.ErrNotFound {
		t.Fatalf("get missing: got %v, want ErrNotFound", err)
	}
	if _, err := r.Update(ctx, created.ID, core.TransactionPatch{}); err != core.ErrNotFound {
		t.Fatalf("update missing: got %v, want ErrNotFound", err)
	}
}

func TestCreateRejectsIncompletePayload(t *testing.T) {
	r := newRepo(t)
	_, err := r.Create(context.Background(), core.Transaction{Date: "2024-04-01"})
	if err != core.ErrInvalidPayload {
		t.Fatalf("got %v, want ErrInvalidPayload", err)
	}
}

func TestUsersRoundTrip(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	u, err := r.CreateUser(ctx, store.User{Email: "a@b.co", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := r.CreateUser(ctx, store.User{Email: "a@b.co", PasswordHash: "x"}); err != store.ErrEmailTaken {
		t.Fatalf("duplicate email: got %v, want ErrEmailTaken", err)
	}

	got, err := r.UserByEmail(ctx, "a@b.co")
	if err != nil || got.ID != u.ID || got.PasswordHash != "hash" {
		t.Fatalf("lookup: %+v (%v)", got, err)
	}

	if _, err := r.UserByEmail(ctx, "missing@b.co"); err != core.ErrNotFound {
		t.Fatalf("missing user: got %v, want ErrNotFound", err)
	}
}

func TestRollupsReplaceAndRead(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	first := []core.MonthlyPoint{
		{Month: "Jan 2024", Revenue: core.Money{Cents: 100}, Expense: core.Money{Cents: 50}},
		{Month: "Feb 2024", Revenue: core.Money{Cents: 200}},
	}
	if err := r.ReplaceRollups(ctx, first); err != nil {
		t.Fatalf("replace: %v", err)
	}

	second := []core.MonthlyPoint{{Month: "Mar 2024", Expense: core.Money{Cents: 70}}}
	if err := r.ReplaceRollups(ctx, second); err != nil {
		t.Fatalf("replace again: %v", err)
	}

	got, err := r.Rollups(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0].Month != "Mar 2024" || got[0].Expense.Cents != 70 {
		t.Fatalf("replace must swap the whole series: %+v", got)
	}
}
