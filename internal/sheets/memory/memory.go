package memory

import (
	"context"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/sheets"
)

var _ sheets.SummaryWriter = (*Writer)(nil)

// Writer keeps the last exported sheet in memory. The worker falls back to
// it when no spreadsheet is configured.
type Writer struct {
	mu     sync.Mutex
	rows   [][]any
	writes int
}

func New() *Writer {
	return &Writer{}
}

func (w *Writer) WriteSummary(_ context.Context, sum core.Summary) error {
	rows := sheets.SummaryRows(sum)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = rows
	w.writes++
	return nil
}

// Rows returns the most recent export.
func (w *Writer) Rows() [][]any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

func (w *Writer) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}
