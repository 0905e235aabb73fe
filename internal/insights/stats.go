package insights

import (
	"math"
	"time"

	"fintrack/internal/core"
)

// Stats computes the headline figures for one month. Expenses are counted by
// magnitude; the top category defaults to "Other" when nothing was spent.
func Stats(txs []core.Transaction, month string) core.MonthStats {
	st := core.MonthStats{Month: month, TopCategory: core.OtherCategory}

	expenseCount := 0
	for _, tx := range txs {
		if tx.Month != month {
			continue
		}
		st.TransactionCount++
		switch tx.Type {
		case core.Income:
			st.Income += tx.Amount
		case core.Expense:
			st.Expenses += math.Abs(tx.Amount)
			expenseCount++
		}
	}
	st.Net = st.Income - st.Expenses

	if cats := CategoryExpensesForMonth(txs, month); len(cats) > 0 {
		st.TopCategory = cats[0].Category
		st.TopCategoryAmount = cats[0].Amount
	}
	if expenseCount > 0 {
		st.AverageExpense = core.Round2(st.Expenses / float64(expenseCount))
	}
	return st
}

// Build assembles a complete Summary for the month containing now.
func Build(txs []core.Transaction, budgets []core.Budget, now time.Time) core.Summary {
	month := core.MonthOf(now)
	return core.Summary{
		Month:           month,
		GeneratedAt:     now,
		Monthly:         MonthlyExpenses(txs),
		Categories:      CategoryExpenses(txs),
		MonthCategories: CategoryExpensesForMonth(txs, month),
		Budgets:         BudgetComparisons(budgets, txs),
		Insights:        SpendingInsights(txs, budgets, now),
		Stats:           Stats(txs, month),
	}
}
