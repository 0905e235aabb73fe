// Package insights derives the dashboard aggregates from a ledger snapshot.
//
// Every function here is pure: it reads its inputs, allocates new outputs and
// keeps no state, so callers may invoke them concurrently and repeatedly with
// the same result.
package insights

import (
	"math"
	"sort"

	"fintrack/internal/core"
)

// MonthlyExpenses sums the signed amount of expense transactions per month.
// Rows appear in order of the first transaction seen for each month; months
// without expenses are absent.
func MonthlyExpenses(txs []core.Transaction) []core.MonthlyExpense {
	out := []core.MonthlyExpense{}
	index := map[string]int{}
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		i, ok := index[tx.Month]
		if !ok {
			i = len(out)
			index[tx.Month] = i
			out = append(out, core.MonthlyExpense{Month: tx.Month})
		}
		out[i].Amount += tx.Amount
	}
	return out
}

// CategoryExpenses sums the absolute amount of expense transactions per
// category in first-seen order. An empty category is reported as "Other".
func CategoryExpenses(txs []core.Transaction) []core.CategoryExpense {
	return groupByCategory(txs, func(core.Transaction) bool { return true })
}

// CategoryExpensesForMonth is CategoryExpenses restricted to one month and
// sorted by amount, largest first. Ties keep first-seen order.
func CategoryExpensesForMonth(txs []core.Transaction, month string) []core.CategoryExpense {
	out := groupByCategory(txs, func(tx core.Transaction) bool { return tx.Month == month })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out
}

func groupByCategory(txs []core.Transaction, keep func(core.Transaction) bool) []core.CategoryExpense {
	out := []core.CategoryExpense{}
	index := map[string]int{}
	for _, tx := range txs {
		if !tx.IsExpense() || !keep(tx) {
			continue
		}
		cat := categoryOf(tx)
		i, ok := index[cat]
		if !ok {
			i = len(out)
			index[cat] = i
			out = append(out, core.CategoryExpense{Category: cat, Color: core.CategoryColor(cat)})
		}
		out[i].Amount += math.Abs(tx.Amount)
	}
	return out
}

// categoryOf reports an empty category as "Other".
func categoryOf(tx core.Transaction) string {
	if tx.Category == "" {
		return core.OtherCategory
	}
	return tx.Category
}

// expenseTotal is the absolute expense volume of one month.
func expenseTotal(txs []core.Transaction, month string) float64 {
	var total float64
	for _, tx := range txs {
		if tx.IsExpense() && tx.Month == month {
			total += math.Abs(tx.Amount)
		}
	}
	return total
}
