package core

import (
	"strconv"
	"strings"
	"time"
)

// Months lists the canonical month names in calendar order.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// IsMonth reports whether s is already a canonical month name.
func IsMonth(s string) bool {
	for _, m := range Months {
		if m == s {
			return true
		}
	}
	return false
}

// ParseMonth maps the month representations found in stored data onto the
// canonical English name. Accepted forms: full name or three letter
// abbreviation in any case, a month number ("1".."12", "07") and an ISO
// "YYYY-MM" or "YYYY-MM-DD" date. The year part is dropped.
func ParseMonth(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidMonth
	}

	lower := strings.ToLower(s)
	for _, m := range Months {
		name := strings.ToLower(m)
		if lower == name || lower == name[:3] {
			return m, nil
		}
	}

	if n, err := strconv.Atoi(s); err == nil {
		return monthNumber(n)
	}

	if len(s) >= 7 && s[4] == '-' {
		if _, err := strconv.Atoi(s[:4]); err != nil {
			return "", ErrInvalidMonth
		}
		n, err := strconv.Atoi(s[5:7])
		if err != nil {
			return "", ErrInvalidMonth
		}
		return monthNumber(n)
	}

	return "", ErrInvalidMonth
}

func monthNumber(n int) (string, error) {
	if n < 1 || n > 12 {
		return "", ErrInvalidMonth
	}
	return Months[n-1], nil
}

// MonthOf returns the canonical month name of t.
func MonthOf(t time.Time) string {
	return Months[t.Month()-1]
}

// PreviousMonthOf returns the canonical name of the calendar month before t.
func PreviousMonthOf(t time.Time) string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return MonthOf(first.AddDate(0, -1, 0))
}

