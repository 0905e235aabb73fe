package memory

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

var _ ledger.Store = (*Store)(nil)

// Store keeps the ledger in process memory. It is the default backend for
// local development and the fake used by handler tests.
type Store struct {
	mu      sync.Mutex
	txs     []core.Transaction
	budgets []core.Budget
	now     func() time.Time
}

func New() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

// NewWithClock is New with a fixed time source, used by tests that assert on
// timestamps or ordering.
func NewWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

// NewFromFiles seeds the store from seed_transactions.json and
// seed_budgets.json in base. Missing files leave the store empty and invalid
// records are skipped.
func NewFromFiles(base string) *Store {
	s := New()
	var txs []core.Transaction
	if readJSON(filepath.Join(base, "seed_transactions.json"), &txs) {
		for _, tx := range txs {
			if err := tx.Normalize(); err != nil {
				slog.Warn("Skipping seed transaction", "title", tx.Title, "error", err)
				continue
			}
			if err := tx.Validate(); err != nil {
				slog.Warn("Skipping seed transaction", "title", tx.Title, "error", err)
				continue
			}
			_, _ = s.CreateTransaction(context.Background(), tx)
		}
	}
	var budgets []core.Budget
	if readJSON(filepath.Join(base, "seed_budgets.json"), &budgets) {
		for _, b := range budgets {
			if err := b.Normalize(); err != nil {
				slog.Warn("Skipping seed budget", "category", b.Category, "error", err)
				continue
			}
			if err := b.Validate(); err != nil {
				slog.Warn("Skipping seed budget", "category", b.Category, "error", err)
				continue
			}
			_, _ = s.CreateBudget(context.Background(), b)
		}
	}
	return s
}

func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("Ignoring malformed seed file", "path", path, "error", err)
		return false
	}
	return true
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	tx.ID = uuid.NewString()
	tx.CreatedAt, tx.UpdatedAt = now, now
	s.txs = append(s.txs, tx)
	return tx, nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.txs))
	for i := len(s.txs) - 1; i >= 0; i-- {
		out = append(out, s.txs[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID != tx.ID {
			continue
		}
		tx.CreatedAt = s.txs[i].CreatedAt
		tx.UpdatedAt = s.now()
		s.txs[i] = tx
		return tx, nil
	}
	return core.Transaction{}, ledger.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	b.ID = uuid.NewString()
	b.CreatedAt, b.UpdatedAt = now, now
	s.budgets = append(s.budgets, b)
	return b, nil
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, 0, len(s.budgets))
	for i := len(s.budgets) - 1; i >= 0; i-- {
		out = append(out, s.budgets[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID != b.ID {
			continue
		}
		b.CreatedAt = s.budgets[i].CreatedAt
		b.UpdatedAt = s.now()
		s.budgets[i] = b
		return b, nil
	}
	return core.Budget{}, ledger.ErrNotFound
}

func (s *Store) DeleteBudget(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}
