package http

import (
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

const budgetNotFound = "Budget not found"

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.ledger.ListBudgets(r.Context())
	if err != nil {
		s.writeError(w, r, err, budgetNotFound)
		return
	}
	SuccessResponse(http.StatusOK, budgets).Write(w)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.parser.ParseBudget(w, r)
	if err != nil {
		s.writeError(w, r, err, budgetNotFound)
		return
	}
	b.ID = ""

	created, err := s.ledger.CreateBudget(r.Context(), b)
	if err != nil {
		s.writeError(w, r, err, budgetNotFound)
		return
	}
	s.logBudget(r, applog.OpCreate, created)
	SuccessResponse(http.StatusCreated, map[string]string{"id": created.ID}).Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.parser.ParseBudget(w, r)
	if err != nil {
		s.writeError(w, r, err, budgetNotFound)
		return
	}

	updated, err := s.ledger.UpdateBudget(r.Context(), b)
	if err != nil {
		s.writeError(w, r, err, budgetNotFound)
		return
	}
	s.logBudget(r, applog.OpUpdate, updated)
	SuccessResponse(http.StatusOK, updated).Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := s.parser.ParseID(w, r)
	if err != nil {
		s.writeError(w, r, err, budgetNotFound)
		return
	}
	if err := s.ledger.DeleteBudget(r.Context(), id); err != nil {
		s.writeError(w, r, err, budgetNotFound)
		return
	}
	s.logger.LogLedgerMutation(r.Context(), applog.OpDelete, string(core.EntityBudget), id, "", "", 0)
	NewJSONResponse().Write(w)
}

func (s *Server) logBudget(r *http.Request, op string, b core.Budget) {
	s.logger.LogLedgerMutation(r.Context(), op, string(core.EntityBudget), b.ID, b.Category, b.Month, b.Amount)
}
