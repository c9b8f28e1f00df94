package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/yashx007/Finance-App/internal/core"
)

func TestNewMemoryBackend(t *testing.T) {
	b, cleanup, err := New(Config{Type: Memory}, nil)
	if err != nil {
		t.Fatalf("new memory backend: %v", err)
	}
	defer cleanup()

	created, err := b.Create(context.Background(), core.Transaction{
		Date: "2024-01-10", Amount: core.Money{Cents: 1000},
		Category: "Revenue", Status: "Paid", UserID: "u1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}
}

func TestNewSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance.db")
	b, cleanup, err := New(Config{Type: SQLite, SQLiteDBPath: path}, nil)
	if err != nil {
		t.Fatalf("new sqlite backend: %v", err)
	}
	defer cleanup()

	if _, err := b.List(context.Background(), core.Filter{SortBy: core.DefaultSortField, Order: core.OrderDesc}); err != nil {
		t.Fatalf("list on fresh database: %v", err)
	}
}

func TestNewRejectsUnknownType(t *testing.T) {
	if _, _, err := New(Config{Type: "mongo"}, nil); err == nil {
		t.Fatal("expected error for unknown backend type")
	}
}
