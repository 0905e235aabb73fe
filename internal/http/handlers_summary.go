package http

import (
	"fmt"
	"net/http"
	"strings"

	"fintrack/internal/core"
)

const summaryNotFound = "Summary not available"

// handleSummary returns the full dashboard snapshot for the current month.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.writeSummaryPart(w, r, func(sum core.Summary) any { return sum })
}

func (s *Server) handleMonthlyExpenses(w http.ResponseWriter, r *http.Request) {
	s.writeSummaryPart(w, r, func(sum core.Summary) any { return sum.Monthly })
}

// handleCategoryExpenses serves the all-time breakdown, or the sorted
// breakdown of one month when ?month= is present.
func (s *Server) handleCategoryExpenses(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("month"))
	if raw == "" {
		s.writeSummaryPart(w, r, func(sum core.Summary) any { return sum.Categories })
		return
	}
	month, err := core.ParseMonth(raw)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: month %q", ErrInvalidQuery, raw), summaryNotFound)
		return
	}
	categories, err := s.dashboard.CategoriesForMonth(r.Context(), month)
	if err != nil {
		s.writeError(w, r, err, summaryNotFound)
		return
	}
	SuccessResponse(http.StatusOK, categories).Write(w)
}

func (s *Server) handleBudgetComparisons(w http.ResponseWriter, r *http.Request) {
	s.writeSummaryPart(w, r, func(sum core.Summary) any { return sum.Budgets })
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	s.writeSummaryPart(w, r, func(sum core.Summary) any { return sum.Insights })
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeSummaryPart(w, r, func(sum core.Summary) any { return sum.Stats })
}

func (s *Server) writeSummaryPart(w http.ResponseWriter, r *http.Request, part func(core.Summary) any) {
	sum, err := s.dashboard.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, err, summaryNotFound)
		return
	}
	SuccessResponse(http.StatusOK, part(sum)).Write(w)
}
