package core

import (
	"math"
	"testing"
)

func TestCategoryColor(t *testing.T) {
	cases := map[string]string{
		"Food & Dining": "#EF4444",
		"Salary":        "#059669",
		"Other":         "#6B7280",
		"Unknown":       "#6B7280",
		"":              "#6B7280",
	}
	for cat, want := range cases {
		if got := CategoryColor(cat); got != want {
			t.Errorf("CategoryColor(%q) = %q, want %q", cat, got, want)
		}
	}
}

func TestIsValidCategory(t *testing.T) {
	if !IsValidCategory("Travel", Expense) {
		t.Error("Travel should be a valid expense category")
	}
	if IsValidCategory("Travel", Income) {
		t.Error("Travel should not be a valid income category")
	}
	if !IsValidCategory("Other", Income) || !IsValidCategory("Other", Expense) {
		t.Error("Other must be valid for both types")
	}
	if DefaultCategory(Income) != "Other" {
		t.Error("default category should be Other")
	}
}

func TestEveryCategoryHasColor(t *testing.T) {
	for _, list := range [][]string{ExpenseCategories, IncomeCategories} {
		for _, c := range list {
			if _, ok := categoryColors[c]; !ok {
				t.Errorf("category %q has no color", c)
			}
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want BudgetStatus
	}{
		{0, StatusGreen},
		{80, StatusGreen},
		{80.01, StatusOrange},
		{100, StatusOrange},
		{100.01, StatusRed},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.pct); got != tt.want {
			t.Errorf("StatusFor(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestParseAmountAndRound2(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12.34", 12.34, false},
		{"12,34", 12.34, false},
		{" -7.5 ", -7.5, false},
		{"0", 0, true},
		{"", 0, true},
		{"1,000.50", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := Round2(66.666666); got != 66.67 {
		t.Errorf("Round2(66.666666) = %v, want 66.67", got)
	}
	if got := Round2(110); got != 110 {
		t.Errorf("Round2(110) = %v, want 110", got)
	}
}

func TestRound2KeepsNonFiniteValues(t *testing.T) {
	for _, v := range []float64{math.Inf(1), math.Inf(-1)} {
		if got := Round2(v); got != v {
			t.Errorf("Round2(%v) = %v", v, got)
		}
	}
	if got := Round2(math.NaN()); !math.IsNaN(got) {
		t.Errorf("Round2(NaN) = %v", got)
	}
}
