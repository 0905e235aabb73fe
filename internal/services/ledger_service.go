package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// ErrValidation marks input rejected before it reached the store.
var ErrValidation = errors.New("validation failed")

// Publisher announces committed ledger writes. *amqp.Client implements it.
type Publisher interface {
	PublishLedgerChange(ctx context.Context, change core.LedgerChange) error
}

// ChangeListener is called synchronously after every committed write.
type ChangeListener func(ctx context.Context, change core.LedgerChange)

// LedgerService validates ledger writes, stores them and fans out change
// notifications.
type LedgerService struct {
	store     ledger.Store
	publisher Publisher

	mu        sync.RWMutex
	listeners []ChangeListener
}

// NewLedgerService accepts a nil publisher when no broker is configured.
func NewLedgerService(store ledger.Store, publisher Publisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

func (s *LedgerService) OnChange(fn ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := prepareTransaction(&tx); err != nil {
		return core.Transaction{}, err
	}
	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.emit(ctx, core.NewLedgerChange(core.EntityTransaction, core.ActionCreated, created.ID, created.Month))
	return created, nil
}

// ListTransactions returns the stored transactions narrowed and ordered by f.
func (s *LedgerService) ListTransactions(ctx context.Context, f ledger.Filter) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return f.Apply(txs), nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if strings.TrimSpace(tx.ID) == "" {
		return core.Transaction{}, ledger.ErrNotFound
	}
	if err := prepareTransaction(&tx); err != nil {
		return core.Transaction{}, err
	}
	updated, err := s.store.UpdateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.emit(ctx, core.NewLedgerChange(core.EntityTransaction, core.ActionUpdated, updated.ID, updated.Month))
	return updated, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ledger.ErrNotFound
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.emit(ctx, core.NewLedgerChange(core.EntityTransaction, core.ActionDeleted, id, ""))
	return nil
}

func (s *LedgerService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := prepareBudget(&b); err != nil {
		return core.Budget{}, err
	}
	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	s.emit(ctx, core.NewLedgerChange(core.EntityBudget, core.ActionCreated, created.ID, created.Month))
	return created, nil
}

func (s *LedgerService) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

func (s *LedgerService) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if strings.TrimSpace(b.ID) == "" {
		return core.Budget{}, ledger.ErrNotFound
	}
	if err := prepareBudget(&b); err != nil {
		return core.Budget{}, err
	}
	updated, err := s.store.UpdateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	s.emit(ctx, core.NewLedgerChange(core.EntityBudget, core.ActionUpdated, updated.ID, updated.Month))
	return updated, nil
}

func (s *LedgerService) DeleteBudget(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ledger.ErrNotFound
	}
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	s.emit(ctx, core.NewLedgerChange(core.EntityBudget, core.ActionDeleted, id, ""))
	return nil
}

func prepareTransaction(tx *core.Transaction) error {
	if err := tx.Normalize(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func prepareBudget(b *core.Budget) error {
	if err := b.Normalize(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// emit runs after the store committed; nothing here can fail the request.
func (s *LedgerService) emit(ctx context.Context, change core.LedgerChange) {
	if s.publisher != nil {
		if err := s.publisher.PublishLedgerChange(ctx, change); err != nil {
			slog.ErrorContext(ctx, "Failed to publish ledger change",
				"entity", change.Entity,
				"action", change.Action,
				"id", change.ID,
				"error", err)
		}
	}

	s.mu.RLock()
	listeners := append([]ChangeListener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, change)
	}
}
