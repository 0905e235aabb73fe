package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/sheets"
)

// Loader reads the whole ledger. services.DashboardService implements it.
type Loader interface {
	Load(ctx context.Context) ([]core.Transaction, []core.Budget, error)
}

// ExportWorker rebuilds the summary from the store and writes it to a sheet,
// on every ledger change and on a fixed interval as a backstop for lost
// messages.
type ExportWorker struct {
	loader   Loader
	writer   sheets.SummaryWriter
	interval time.Duration
	now      func() time.Time

	exportMu sync.Mutex

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewExportWorker(loader Loader, writer sheets.SummaryWriter, interval time.Duration) *ExportWorker {
	return &ExportWorker{
		loader:   loader,
		writer:   writer,
		interval: interval,
		now:      time.Now,
	}
}

// HandleChange has the shape the AMQP consumer expects. A returned error
// requeues the message.
func (w *ExportWorker) HandleChange(ctx context.Context, change core.LedgerChange) error {
	slog.InfoContext(ctx, "Exporting after ledger change",
		"entity", change.Entity,
		"action", change.Action,
		"id", change.ID)
	return w.Export(ctx)
}

// Export writes one fresh summary. Concurrent calls are serialised.
func (w *ExportWorker) Export(ctx context.Context) error {
	w.exportMu.Lock()
	defer w.exportMu.Unlock()

	txs, budgets, err := w.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	sum := insights.Build(txs, budgets, w.now())
	if err := w.writer.WriteSummary(ctx, sum); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	slog.InfoContext(ctx, "Summary exported",
		"month", sum.Month,
		"transactions", len(txs),
		"budgets", len(budgets))
	return nil
}

// Start runs an export immediately and then every interval.
func (w *ExportWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("export worker is already running")
	}
	if w.interval <= 0 {
		w.mu.Unlock()
		return fmt.Errorf("export interval must be positive, got %s", w.interval)
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.runLoop(ctx, w.stopCh, w.doneCh)

	slog.InfoContext(ctx, "Export worker started", "interval", w.interval)
	return nil
}

// Stop waits for the loop to exit or ctx to expire.
func (w *ExportWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Export worker stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Export worker stop timed out")
		return ctx.Err()
	}
}

func (w *ExportWorker) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.exportLogged(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.exportLogged(ctx)
		}
	}
}

func (w *ExportWorker) exportLogged(ctx context.Context) {
	if err := w.Export(ctx); err != nil {
		slog.ErrorContext(ctx, "Periodic export failed", "error", err)
	}
}
