package core

import "time"

const (
	StatusGreen  BudgetStatus = "green"
	StatusOrange BudgetStatus = "orange"
	StatusRed    BudgetStatus = "red"
)

const (
	InsightWarning InsightType = "warning"
	InsightSuccess InsightType = "success"
	InsightInfo    InsightType = "info"
)

// Icon tags understood by the dashboard; anything else renders as "Info".
const (
	IconTrendingUp    = "TrendingUp"
	IconTrendingDown  = "TrendingDown"
	IconAlertTriangle = "AlertTriangle"
	IconPieChart      = "PieChart"
)

type (
	// BudgetStatus is the color tier of a budget comparison.
	BudgetStatus string

	InsightType string

	MonthlyExpense struct {
		Month  string  `json:"month"`
		Amount float64 `json:"amount"`
	}

	CategoryExpense struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
		Color    string  `json:"color"`
	}

	// BudgetComparison is the budget-vs-actual view of one budget.
	// Undefined is set when the budgeted amount is zero and Percentage
	// carries no meaning.
	BudgetComparison struct {
		ID         string       `json:"_id"`
		Category   string       `json:"category"`
		Month      string       `json:"month"`
		Budgeted   float64      `json:"budgeted"`
		Actual     float64      `json:"actual"`
		Remaining  float64      `json:"remaining"`
		Percentage float64      `json:"percentage"`
		Color      BudgetStatus `json:"color"`
		Undefined  bool         `json:"undefined,omitempty"`
	}

	SpendingInsight struct {
		Type        InsightType `json:"type"`
		Title       string      `json:"title"`
		Description string      `json:"description"`
		Icon        string      `json:"icon"`
	}

	// MonthStats are the headline figures of a single month.
	MonthStats struct {
		Month             string  `json:"month"`
		Income            float64 `json:"income"`
		Expenses          float64 `json:"expenses"`
		Net               float64 `json:"net"`
		TransactionCount  int     `json:"transactionCount"`
		TopCategory       string  `json:"topCategory"`
		TopCategoryAmount float64 `json:"topCategoryAmount"`
		AverageExpense    float64 `json:"averageExpense"`
	}

	// Summary is a full dashboard snapshot derived from one load of the
	// ledger.
	Summary struct {
		Month           string             `json:"month"`
		GeneratedAt     time.Time          `json:"generatedAt"`
		Monthly         []MonthlyExpense   `json:"monthlyExpenses"`
		Categories      []CategoryExpense  `json:"categoryExpenses"`
		MonthCategories []CategoryExpense  `json:"monthCategoryExpenses"`
		Budgets         []BudgetComparison `json:"budgetComparisons"`
		Insights        []SpendingInsight  `json:"insights"`
		Stats           MonthStats         `json:"stats"`
	}
)

// StatusFor maps a usage percentage onto its color tier.
func StatusFor(percentage float64) BudgetStatus {
	switch {
	case percentage > 100:
		return StatusRed
	case percentage > 80:
		return StatusOrange
	default:
		return StatusGreen
	}
}
