package sheets

import (
	"time"

	"fintrack/internal/core"
)

// SummaryRows lays a summary out as sheet rows, one titled section per
// aggregate separated by blank rows. Undefined budget percentages are
// written as "n/a".
func SummaryRows(sum core.Summary) [][]any {
	rows := [][]any{
		{"Summary", sum.Month, sum.GeneratedAt.UTC().Format(time.RFC3339)},
		{},
		{"Month stats"},
		{"Income", "Expenses", "Net", "Transactions", "Top category", "Top category amount", "Average expense"},
		{
			sum.Stats.Income,
			sum.Stats.Expenses,
			sum.Stats.Net,
			sum.Stats.TransactionCount,
			sum.Stats.TopCategory,
			sum.Stats.TopCategoryAmount,
			sum.Stats.AverageExpense,
		},
		{},
		{"Monthly expenses"},
		{"Month", "Amount"},
	}
	for _, m := range sum.Monthly {
		rows = append(rows, []any{m.Month, m.Amount})
	}

	rows = append(rows, []any{}, []any{"Category breakdown"}, []any{"Category", "Amount", "Color"})
	for _, c := range sum.Categories {
		rows = append(rows, []any{c.Category, c.Amount, c.Color})
	}

	rows = append(rows, []any{}, []any{"Budget vs actual"},
		[]any{"Category", "Month", "Budgeted", "Actual", "Remaining", "Used %", "Status"})
	for _, b := range sum.Budgets {
		var pct any = b.Percentage
		if b.Undefined {
			pct = "n/a"
		}
		rows = append(rows, []any{b.Category, b.Month, b.Budgeted, b.Actual, b.Remaining, pct, string(b.Color)})
	}

	rows = append(rows, []any{}, []any{"Insights"}, []any{"Type", "Title", "Description"})
	for _, in := range sum.Insights {
		rows = append(rows, []any{string(in.Type), in.Title, in.Description})
	}
	return rows
}
