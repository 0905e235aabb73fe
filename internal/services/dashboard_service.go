package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
)

// DashboardService serves aggregated summaries, cached per calendar month
// until the ledger changes or the TTL runs out.
type DashboardService struct {
	store ledger.Store
	cache *cache.LRUCache[core.Summary]
	now   func() time.Time

	// generation counts invalidations. A rebuild that started before the
	// latest one must not be cached.
	mu         sync.Mutex
	generation uint64
}

func NewDashboardService(store ledger.Store, ttl time.Duration) *DashboardService {
	return &DashboardService{
		store: store,
		cache: cache.NewLRUCache[core.Summary](12, ttl),
		now:   time.Now,
	}
}

// Cache exposes the summary cache so it can be registered with a
// cache.Manager.
func (s *DashboardService) Cache() *cache.LRUCache[core.Summary] {
	return s.cache
}

// Summary returns the snapshot for the current month.
func (s *DashboardService) Summary(ctx context.Context) (core.Summary, error) {
	now := s.now()
	key := summaryKey(now)
	if sum, ok := s.cache.Get(key); ok {
		return sum, nil
	}

	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	txs, budgets, err := s.Load(ctx)
	if err != nil {
		return core.Summary{}, err
	}

	sum := insights.Build(txs, budgets, now)
	s.mu.Lock()
	if s.generation == gen {
		s.cache.Set(key, sum)
	}
	s.mu.Unlock()
	dashboardLogger(ctx).DebugContext(ctx, "Summary rebuilt",
		applog.FieldMonth, sum.Month,
		"transactions", len(txs),
		"budgets", len(budgets))
	return sum, nil
}

// CategoriesForMonth is the per-month category breakdown; it always reads
// through to the store.
func (s *DashboardService) CategoriesForMonth(ctx context.Context, month string) ([]core.CategoryExpense, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return insights.CategoryExpensesForMonth(txs, month), nil
}

// Load fetches transactions and budgets concurrently.
func (s *DashboardService) Load(ctx context.Context) ([]core.Transaction, []core.Budget, error) {
	var (
		txs     []core.Transaction
		budgets []core.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(gctx)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return txs, budgets, nil
}

// Invalidate drops every cached summary. It has the ChangeListener shape so
// it can be registered on a LedgerService directly.
func (s *DashboardService) Invalidate(ctx context.Context, change core.LedgerChange) {
	s.mu.Lock()
	s.generation++
	s.cache.Purge()
	s.mu.Unlock()
	dashboardLogger(ctx).DebugContext(ctx, "Summary cache invalidated",
		applog.FieldEntity, change.Entity,
		"action", change.Action)
}

func dashboardLogger(ctx context.Context) *applog.Logger {
	return applog.FromContext(ctx).WithComponent(applog.ComponentDashboard)
}

func summaryKey(t time.Time) string {
	return t.Format("2006-01")
}
