package core

// OtherCategory absorbs transactions with an empty or unknown category.
const OtherCategory = "Other"

// fallbackColor is used for categories missing from categoryColors.
const fallbackColor = "#6B7280"

var ExpenseCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Travel",
	"Personal Care",
	"Home & Garden",
	"Gifts & Donations",
	OtherCategory,
}

var IncomeCategories = []string{
	"Salary",
	"Freelance",
	"Business",
	"Investments",
	"Rental Income",
	"Gifts",
	OtherCategory,
}

var categoryColors = map[string]string{
	"Food & Dining":     "#EF4444",
	"Transportation":    "#F97316",
	"Shopping":          "#EAB308",
	"Entertainment":     "#22C55E",
	"Bills & Utilities": "#06B6D4",
	"Healthcare":        "#3B82F6",
	"Education":         "#8B5CF6",
	"Travel":            "#EC4899",
	"Personal Care":     "#F59E0B",
	"Home & Garden":     "#10B981",
	"Gifts & Donations": "#84CC16",
	OtherCategory:       fallbackColor,
	"Salary":            "#059669",
	"Freelance":         "#0891B2",
	"Business":          "#7C3AED",
	"Investments":       "#DC2626",
	"Rental Income":     "#EA580C",
	"Gifts":             "#16A34A",
}

// CategoryColor is the single color policy for categories: a static lookup
// with a gray fallback.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return fallbackColor
}

// CategoriesFor returns the category list valid for the given type.
func CategoriesFor(t TxType) []string {
	if t == Income {
		return IncomeCategories
	}
	return ExpenseCategories
}

func IsValidCategory(category string, t TxType) bool {
	for _, c := range CategoriesFor(t) {
		if c == category {
			return true
		}
	}
	return false
}

// DefaultCategory is "Other" for both types.
func DefaultCategory(TxType) string {
	return OtherCategory
}
