package ledger

import (
	"sort"
	"strings"

	"fintrack/internal/core"
)

const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"
)

type SortField string

// Filter narrows and orders a transaction list the way the dashboard's
// transaction table does. Zero values mean "no constraint"; the default
// order is newest first.
type Filter struct {
	Search    string
	Category  string
	Type      core.TxType
	Month     string
	SortBy    SortField
	Ascending bool
}

// Apply returns a new slice; txs is left untouched.
func (f Filter) Apply(txs []core.Transaction) []core.Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if search != "" && !strings.Contains(strings.ToLower(tx.Title), search) {
			continue
		}
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Month != "" && tx.Month != f.Month {
			continue
		}
		out = append(out, tx)
	}

	less := func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) }
	if f.SortBy == SortByAmount {
		less = func(i, j int) bool { return out[i].Amount < out[j].Amount }
	}
	if f.Ascending {
		sort.SliceStable(out, less)
	} else {
		sort.SliceStable(out, func(i, j int) bool { return less(j, i) })
	}
	return out
}

// ParseSortField falls back to date for anything unrecognised.
func ParseSortField(s string) SortField {
	if SortField(strings.ToLower(strings.TrimSpace(s))) == SortByAmount {
		return SortByAmount
	}
	return SortByDate
}
