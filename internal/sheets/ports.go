package sheets

import (
	"context"

	"fintrack/internal/core"
)

// SummaryWriter publishes a dashboard snapshot to an external sheet.
type SummaryWriter interface {
	WriteSummary(ctx context.Context, sum core.Summary) error
}
