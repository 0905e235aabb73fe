package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 500
)

type (
	// TxType distinguishes money coming in from money going out.
	TxType string

	Transaction struct {
		ID          string    `json:"_id"`
		Title       string    `json:"title"`
		Amount      float64   `json:"amount"`
		Type        TxType    `json:"type"`
		Category    string    `json:"category"`
		Month       string    `json:"month"` // canonical English month name
		Description string    `json:"description,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	// Budget is a spending ceiling for one category in one month.
	Budget struct {
		ID          string    `json:"_id"`
		Category    string    `json:"category"`
		Amount      float64   `json:"amount"`
		Month       string    `json:"month"`
		Description string    `json:"description,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}
)

var (
	ErrEmptyTitle          = errors.New("empty title")
	ErrTitleTooLong        = errors.New("title too long (max 200 characters)")
	ErrDescriptionTooLong  = errors.New("description too long (max 500 characters)")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidBudgetAmount = errors.New("budget amount must be at least 0.01")
	ErrAmountTooLarge      = errors.New("amount too large (max 1e12)")
)

func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

// ParseTxType accepts any casing of "income" or "expense".
func ParseTxType(s string) (TxType, error) {
	t := TxType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// Normalize trims free-text fields, canonicalizes the month and fills in the
// default category. It must run before Validate on any externally supplied
// transaction.
func (t *Transaction) Normalize() error {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)
	if t.Category == "" {
		t.Category = DefaultCategory(t.Type)
	}
	m, err := ParseMonth(t.Month)
	if err != nil {
		return err
	}
	t.Month = m
	return nil
}

func (t Transaction) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > maxTitleLength {
		return ErrTitleTooLong
	}
	if len(t.Description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !finite(t.Amount) || t.Amount == 0 {
		return ErrInvalidAmount
	}
	if math.Abs(t.Amount) > MaxAmount {
		return ErrAmountTooLarge
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !IsValidCategory(t.Category, t.Type) {
		return ErrInvalidCategory
	}
	if !IsMonth(t.Month) {
		return ErrInvalidMonth
	}
	return nil
}

// IsExpense reports whether the transaction counts towards spending.
func (t Transaction) IsExpense() bool {
	return t.Type == Expense
}

func (b *Budget) Normalize() error {
	b.Description = strings.TrimSpace(b.Description)
	b.Category = strings.TrimSpace(b.Category)
	if b.Category == "" {
		b.Category = DefaultCategory(Expense)
	}
	m, err := ParseMonth(b.Month)
	if err != nil {
		return err
	}
	b.Month = m
	return nil
}

func (b Budget) Validate() error {
	if !finite(b.Amount) {
		return ErrInvalidAmount
	}
	if b.Amount < MinBudgetAmount {
		return ErrInvalidBudgetAmount
	}
	if b.Amount > MaxAmount {
		return ErrAmountTooLarge
	}
	if !IsValidCategory(b.Category, Expense) {
		return ErrInvalidCategory
	}
	if len(b.Description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !IsMonth(b.Month) {
		return ErrInvalidMonth
	}
	return nil
}
