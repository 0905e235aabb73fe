package insights

import (
	"fmt"
	"time"

	"fintrack/internal/core"
)

const (
	increaseThreshold      = 20.0  // percent growth over previous month
	savingsThreshold       = -10.0 // percent change over previous month
	concentrationThreshold = 40.0  // percent of the month's spending
)

// SpendingInsights runs the trend, overrun and concentration checks in that
// order and returns between zero and three insights. now selects the
// current and previous calendar month.
func SpendingInsights(txs []core.Transaction, budgets []core.Budget, now time.Time) []core.SpendingInsight {
	current := core.MonthOf(now)
	previous := core.PreviousMonthOf(now)

	out := []core.SpendingInsight{}
	if in, ok := trendInsight(txs, current, previous); ok {
		out = append(out, in)
	}
	if in, ok := overrunInsight(BudgetComparisons(budgets, txs)); ok {
		out = append(out, in)
	}
	if in, ok := concentrationInsight(txs, current); ok {
		out = append(out, in)
	}
	return out
}

func trendInsight(txs []core.Transaction, current, previous string) (core.SpendingInsight, bool) {
	prevTotal := expenseTotal(txs, previous)
	if prevTotal <= 0 {
		return core.SpendingInsight{}, false
	}
	change := (expenseTotal(txs, current) - prevTotal) / prevTotal * 100

	switch {
	case change > increaseThreshold:
		return core.SpendingInsight{
			Type:        core.InsightWarning,
			Title:       "Spending Increased",
			Description: fmt.Sprintf("Your spending in %s is up %.1f%% compared to %s.", current, change, previous),
			Icon:        core.IconTrendingUp,
		}, true
	case change < savingsThreshold:
		return core.SpendingInsight{
			Type:        core.InsightSuccess,
			Title:       "Great Savings!",
			Description: fmt.Sprintf("You spent %.1f%% less in %s than in %s. Keep it up!", -change, current, previous),
			Icon:        core.IconTrendingDown,
		}, true
	}
	return core.SpendingInsight{}, false
}

// overrunInsight reports the first exceeded budget in list order, which is
// not necessarily the worst one.
func overrunInsight(cmps []core.BudgetComparison) (core.SpendingInsight, bool) {
	for _, c := range cmps {
		if c.Undefined || c.Percentage <= 100 {
			continue
		}
		return core.SpendingInsight{
			Type:        core.InsightWarning,
			Title:       "Budget Exceeded",
			Description: fmt.Sprintf("You have exceeded your %s budget for %s by %.1f%%.", c.Category, c.Month, c.Percentage-100),
			Icon:        core.IconAlertTriangle,
		}, true
	}
	return core.SpendingInsight{}, false
}

func concentrationInsight(txs []core.Transaction, month string) (core.SpendingInsight, bool) {
	cats := CategoryExpensesForMonth(txs, month)
	total := expenseTotal(txs, month)
	if len(cats) == 0 || total <= 0 {
		return core.SpendingInsight{}, false
	}
	top := cats[0]
	share := top.Amount / total * 100
	if share <= concentrationThreshold {
		return core.SpendingInsight{}, false
	}
	return core.SpendingInsight{
		Type:        core.InsightInfo,
		Title:       "Top Spending Category",
		Description: fmt.Sprintf("%s accounts for %.1f%% of your spending in %s.", top.Category, share, month),
		Icon:        core.IconPieChart,
	}, true
}
