package insights

import (
	"math"

	"fintrack/internal/core"
)

// BudgetComparisons compares each budget with the expenses booked against
// the same category and month. Output order follows budgets.
//
// Expense amounts are summed as stored, so negative expense amounts reduce
// the actual figure. A zero budget yields Percentage 0 with Undefined set;
// its color is red once anything was spent and green otherwise. A ratio that
// overflows is reported the same way. Expenses without a category count
// against the "Other" budget, as in the category breakdown.
func BudgetComparisons(budgets []core.Budget, txs []core.Transaction) []core.BudgetComparison {
	type key struct{ category, month string }
	actuals := map[key]float64{}
	for _, tx := range txs {
		if tx.IsExpense() {
			actuals[key{categoryOf(tx), tx.Month}] += tx.Amount
		}
	}

	out := make([]core.BudgetComparison, 0, len(budgets))
	for _, b := range budgets {
		actual := actuals[key{b.Category, b.Month}]
		cmp := core.BudgetComparison{
			ID:        b.ID,
			Category:  b.Category,
			Month:     b.Month,
			Budgeted:  b.Amount,
			Actual:    actual,
			Remaining: b.Amount - actual,
		}
		pct := actual / b.Amount * 100
		if b.Amount == 0 || math.IsNaN(pct) || math.IsInf(pct, 0) {
			cmp.Undefined = true
			cmp.Color = core.StatusGreen
			if actual > 0 {
				cmp.Color = core.StatusRed
			}
		} else {
			cmp.Percentage = core.Round2(pct)
			cmp.Color = core.StatusFor(cmp.Percentage)
		}
		out = append(out, cmp)
	}
	return out
}
