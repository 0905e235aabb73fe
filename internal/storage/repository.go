package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/ledger"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so that created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var _ ledger.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
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

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	now := r.now()
	tx.ID = uuid.NewString()
	tx.CreatedAt, tx.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, title, amount, type, category, month, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Title, tx.Amount, string(tx.Type), tx.Category, tx.Month, tx.Description,
		formatTime(tx.CreatedAt), formatTime(tx.UpdatedAt))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"type", tx.Type,
		"category", tx.Category,
		"month", tx.Month)

	return tx, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, amount, type, category, month, description, created_at, updated_at
		FROM transactions
		ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		var (
			tx               core.Transaction
			txType           string
			created, updated string
		)
		if err := rows.Scan(&tx.ID, &tx.Title, &tx.Amount, &txType, &tx.Category, &tx.Month, &tx.Description, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = core.TxType(txType)
		if tx.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if tx.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.UpdatedAt = r.now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET title = ?, amount = ?, type = ?, category = ?, month = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		tx.Title, tx.Amount, string(tx.Type), tx.Category, tx.Month, tx.Description, formatTime(tx.UpdatedAt), tx.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return core.Transaction{}, err
	}

	var created string
	if err := r.db.QueryRowContext(ctx, `SELECT created_at FROM transactions WHERE id = ?`, tx.ID).Scan(&created); err != nil {
		return core.Transaction{}, fmt.Errorf("reload transaction: %w", err)
	}
	if tx.CreatedAt, err = parseTime(created); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	now := r.now()
	b.ID = uuid.NewString()
	b.CreatedAt, b.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, category, amount, month, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Category, b.Amount, b.Month, b.Description, formatTime(b.CreatedAt), formatTime(b.UpdatedAt))
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved to SQLite",
		"id", b.ID,
		"category", b.Category,
		"month", b.Month)

	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, amount, month, description, created_at, updated_at
		FROM budgets
		ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	out := []core.Budget{}
	for rows.Next() {
		var (
			b                core.Budget
			created, updated string
		)
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount, &b.Month, &b.Description, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if b.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if b.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.UpdatedAt = r.now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets
		SET category = ?, amount = ?, month = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		b.Category, b.Amount, b.Month, b.Description, formatTime(b.UpdatedAt), b.ID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return core.Budget{}, err
	}

	var created string
	if err := r.db.QueryRowContext(ctx, `SELECT created_at FROM budgets WHERE id = ?`, b.ID).Scan(&created); err != nil {
		return core.Budget{}, fmt.Errorf("reload budget: %w", err)
	}
	if b.CreatedAt, err = parseTime(created); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
