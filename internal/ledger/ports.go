package ledger

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// ErrNotFound is returned by every backend when an update or delete targets
// an unknown id.
var ErrNotFound = errors.New("record not found")

// Ports implemented by the storage backends.
type (
	// TransactionStore persists transactions. List returns newest first.
	TransactionStore interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	// BudgetStore persists budgets. List returns newest first.
	BudgetStore interface {
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		DeleteBudget(ctx context.Context, id string) error
	}

	Store interface {
		TransactionStore
		BudgetStore
	}

	// Pinger is implemented by backends with a remote dependency worth
	// probing from /readyz.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
