package insights

import (
	"math"
	"reflect"
	"testing"

	"fintrack/internal/core"
)

func expense(cat, month string, amount float64) core.Transaction {
	return core.Transaction{Title: cat, Type: core.Expense, Category: cat, Month: month, Amount: amount}
}

func income(month string, amount float64) core.Transaction {
	return core.Transaction{Title: "pay", Type: core.Income, Category: "Salary", Month: month, Amount: amount}
}

func TestMonthlyExpenses(t *testing.T) {
	txs := []core.Transaction{
		expense("Travel", "March", 100),
		income("March", 5000),
		expense("Shopping", "January", 40),
		expense("Food & Dining", "March", 25),
		expense("Shopping", "January", -10),
	}

	got := MonthlyExpenses(txs)
	want := []core.MonthlyExpense{
		{Month: "March", Amount: 125},
		{Month: "January", Amount: 30},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MonthlyExpenses() = %+v, want %+v", got, want)
	}
}

func TestMonthlyExpensesEmpty(t *testing.T) {
	got := MonthlyExpenses([]core.Transaction{income("May", 10)})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestMonthlyExpensesSumMatchesExpenseTotal(t *testing.T) {
	txs := []core.Transaction{
		expense("Travel", "March", 12.5),
		expense("Travel", "April", 7.25),
		income("April", 100),
		expense("Other", "March", -3),
		expense("Shopping", "June", 40),
	}
	var want, got float64
	for _, tx := range txs {
		if tx.IsExpense() {
			want += tx.Amount
		}
	}
	for _, m := range MonthlyExpenses(txs) {
		got += m.Amount
	}
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("sum of monthly rows = %v, want %v", got, want)
	}
}

func TestCategoryExpenses(t *testing.T) {
	txs := []core.Transaction{
		expense("Travel", "March", 100),
		expense("", "March", 5),
		expense("Food & Dining", "April", -20),
		income("March", 999),
		expense("Travel", "April", 50),
	}

	got := CategoryExpenses(txs)
	want := []core.CategoryExpense{
		{Category: "Travel", Amount: 150, Color: "#EC4899"},
		{Category: "Other", Amount: 5, Color: "#6B7280"},
		{Category: "Food & Dining", Amount: 20, Color: "#EF4444"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CategoryExpenses() = %+v, want %+v", got, want)
	}

	var total float64
	for _, c := range got {
		total += c.Amount
	}
	if total != 175 {
		t.Fatalf("category total = %v, want 175 (sum of magnitudes)", total)
	}
}

func TestCategoryExpensesForMonthSortsDescending(t *testing.T) {
	txs := []core.Transaction{
		expense("Travel", "March", 10),
		expense("Shopping", "March", 30),
		expense("Healthcare", "March", 10),
		expense("Shopping", "April", 500),
		expense("Education", "March", 20),
	}

	got := CategoryExpensesForMonth(txs, "March")
	var order []string
	for _, c := range got {
		order = append(order, c.Category)
	}
	want := []string{"Shopping", "Education", "Travel", "Healthcare"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	if got[0].Amount != 30 {
		t.Fatalf("Shopping amount = %v, want 30 (April excluded)", got[0].Amount)
	}
}

func TestAggregatesAreIdempotent(t *testing.T) {
	txs := []core.Transaction{
		expense("Travel", "March", 10),
		expense("Shopping", "February", 30),
		income("March", 100),
	}
	budgets := []core.Budget{{Category: "Travel", Month: "March", Amount: 8}}

	if !reflect.DeepEqual(MonthlyExpenses(txs), MonthlyExpenses(txs)) {
		t.Error("MonthlyExpenses is not idempotent")
	}
	if !reflect.DeepEqual(CategoryExpenses(txs), CategoryExpenses(txs)) {
		t.Error("CategoryExpenses is not idempotent")
	}
	if !reflect.DeepEqual(BudgetComparisons(budgets, txs), BudgetComparisons(budgets, txs)) {
		t.Error("BudgetComparisons is not idempotent")
	}
	if !reflect.DeepEqual(SpendingInsights(txs, budgets, march), SpendingInsights(txs, budgets, march)) {
		t.Error("SpendingInsights is not idempotent")
	}
}
