package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func steppingClock() func() time.Time {
	t := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestStoreTransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewWithClock(steppingClock())

	a, err := s.CreateTransaction(ctx, core.Transaction{Title: "a", Amount: 1, Type: core.Expense, Category: "Other", Month: "March"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == "" || a.CreatedAt.IsZero() || !a.CreatedAt.Equal(a.UpdatedAt) {
		t.Fatalf("create should assign id and timestamps: %+v", a)
	}
	b, _ := s.CreateTransaction(ctx, core.Transaction{Title: "b", Amount: 2, Type: core.Expense, Category: "Other", Month: "March"})

	list, _ := s.ListTransactions(ctx)
	if len(list) != 2 || list[0].ID != b.ID || list[1].ID != a.ID {
		t.Fatalf("list should be newest first: %+v", list)
	}

	a.Title = "a2"
	updated, err := s.UpdateTransaction(ctx, a)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "a2" || !updated.CreatedAt.Equal(a.CreatedAt) || !updated.UpdatedAt.After(a.UpdatedAt) {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := s.UpdateTransaction(ctx, core.Transaction{ID: "missing"}); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("update missing: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteTransaction(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, a.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
	list, _ = s.ListTransactions(ctx)
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("unexpected list after delete: %+v", list)
	}
}

func TestStoreBudgetLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewWithClock(steppingClock())

	b, _ := s.CreateBudget(ctx, core.Budget{Category: "Travel", Amount: 100, Month: "May"})
	b.Amount = 150
	got, err := s.UpdateBudget(ctx, b)
	if err != nil || got.Amount != 150 {
		t.Fatalf("update: %+v %v", got, err)
	}
	if _, err := s.UpdateBudget(ctx, core.Budget{ID: "nope"}); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteBudget(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := s.ListBudgets(ctx)
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}
}

func TestNewFromFilesSeedsAndSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	s := NewFromFiles(dir)
	if txs, _ := s.ListTransactions(context.Background()); len(txs) != 0 {
		t.Fatalf("expected empty store when files are missing")
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("seed_transactions.json", `[
		{"title":"Rent","amount":900,"type":"expense","category":"Bills & Utilities","month":"2025-03"},
		{"title":"","amount":1,"type":"expense","month":"March"},
		{"title":"Bad month","amount":1,"type":"expense","month":"Smarch"}
	]`)
	mustWrite("seed_budgets.json", `[{"category":"Travel","amount":200,"month":"apr"},{"category":"Travel","amount":0,"month":"April"}]`)

	s = NewFromFiles(dir)
	txs, _ := s.ListTransactions(context.Background())
	if len(txs) != 1 || txs[0].Title != "Rent" || txs[0].Month != "March" {
		t.Fatalf("unexpected seeded transactions: %+v", txs)
	}
	budgets, _ := s.ListBudgets(context.Background())
	if len(budgets) != 1 || budgets[0].Month != "April" {
		t.Fatalf("unexpected seeded budgets: %+v", budgets)
	}
}

func TestNewFromFilesMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "seed_transactions.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFromFiles(dir)
	if txs, _ := s.ListTransactions(context.Background()); len(txs) != 0 {
		t.Fatalf("malformed seed file must be ignored")
	}
}
