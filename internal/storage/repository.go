// Package storage implements the store ports on SQLite. Filters are
// translated into WHERE/ORDER BY clauses; only whitelisted columns ever
// reach ORDER BY.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/yashx007/Finance-App/internal/core"
	"github.com/yashx007/Finance-App/internal/store"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const txColumns = "id, date, amount_cents, category, status, user_id, user_profile"

// sortColumn maps a filter sort field to its column. The filter builder
// already whitelists fields; the switch keeps this layer safe on its own.
func sortColumn(field string) string {
	switch field {
	case "amount":
		return "amount_cents"
	case "id", "category", "status", "user_id":
		return field
	default:
		return "date"
	}
}

// List applies all active filters as a logical AND and sorts by the
// filter's field and direction, ties broken by insertion order.
func (r *SQLiteRepository) List(ctx context.Context, f core.Filter) ([]core.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.RangeActive {
		where = append(where, "amount_cents BETWEEN ? AND ?")
		args = append(args, f.MinAmount, f.MaxAmount)
	}
	if f.Search != "" {
		needle := "%" + strings.ToLower(f.Search) + "%"
		where = append(where, "(lower(user_id) LIKE ? OR lower(category) LIKE ? OR lower(status) LIKE ?)")
		args = append(args, needle, needle, needle)
	}

	query := "SELECT " + txColumns + " FROM transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	direction := "DESC"
	if f.Order == core.OrderAsc {
		direction = "ASC"
	}
	// Dates are stored as their raw strings and sort lexicographically.
	// That is chronological within a single layout (RFC3339 and
	// YYYY-MM-DD both sort right); records mixing layouts order by
	// format, matching the in-memory store.
	query += " ORDER BY " + sortColumn(f.SortBy) + " " + direction + ", rowid ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO transactions (id, date, amount_cents, category, status, user_id, user_profile) VALUES (?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.Date, t.Amount.Cents, t.Category, t.Status, t.UserID, t.UserProfile)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"category", t.Category,
		"amount_cents", t.Amount.Cents,
		"user_id", t.UserID)

	return t, nil
}

// Update reads the current record, applies the non-nil patch fields and
// writes the row back. Concurrent updates on the same record are a
// last-writer-wins race.
func (r *SQLiteRepository) Update(ctx context.Context, id string, p core.TransactionPatch) (core.Transaction, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	updated := p.Apply(current)
	updated.ID = id

	_, err = r.db.ExecContext(ctx,
		"UPDATE transactions SET date = ?, amount_cents = ?, category = ?, status = ?, user_id = ?, user_profile = ? WHERE id = ?",
		updated.Date, updated.Amount.Cents, updated.Category, updated.Status, updated.UserID, updated.UserProfile, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return updated, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u store.User) (store.User, error) {
	u.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)",
		u.ID, u.Email, u.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return store.User{}, store.ErrEmailTaken
		}
		return store.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) UserByEmail(ctx context.Context, email string) (store.User, error) {
	var u store.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, core.ErrNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ReplaceRollups swaps the precomputed monthly series atomically.
func (r *SQLiteRepository) ReplaceRollups(ctx context.Context, points []core.MonthlyPoint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rollup replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM monthly_rollups"); err != nil {
		return fmt.Errorf("clear rollups: %w", err)
	}
	for i, p := range points {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO monthly_rollups (position, month, revenue_cents, expense_cents) VALUES (?, ?, ?, ?)",
			i, p.Month, p.Revenue.Cents, p.Expense.Cents)
		if err != nil {
			return fmt.Errorf("insert rollup %q: %w", p.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rollup replace: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Rollups(ctx context.Context) ([]core.MonthlyPoint, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT month, revenue_cents, expense_cents FROM monthly_rollups ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("read rollups: %w", err)
	}
	defer rows.Close()

	var out []core.MonthlyPoint
	for rows.Next() {
		var p core.MonthlyPoint
		if err := rows.Scan(&p.Month, &p.Revenue.Cents, &p.Expense.Cents); err != nil {
			return nil, fmt.Errorf("scan rollup: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rollups: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	err := row.Scan(&t.ID, &t.Date, &t.Amount.Cents, &t.Category, &t.Status, &t.UserID, &t.UserProfile)
	return t, err
}
