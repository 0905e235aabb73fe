package http

import (
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

const transactionNotFound = "Transaction not found"

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseListFilter(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err, transactionNotFound)
		return
	}
	txs, err := s.ledger.ListTransactions(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err, transactionNotFound)
		return
	}
	SuccessResponse(http.StatusOK, txs).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.parser.ParseTransaction(w, r)
	if err != nil {
		s.writeError(w, r, err, transactionNotFound)
		return
	}
	tx.ID = ""

	created, err := s.ledger.CreateTransaction(r.Context(), tx)
	if err != nil {
		s.writeError(w, r, err, transactionNotFound)
		return
	}
	s.logTransaction(r, applog.OpCreate, created)
	SuccessResponse(http.StatusCreated, map[string]string{"id": created.ID}).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.parser.ParseTransaction(w, r)
	if err != nil {
		s.writeError(w, r, err, transactionNotFound)
		return
	}

	updated, err := s.ledger.UpdateTransaction(r.Context(), tx)
	if err != nil {
		s.writeError(w, r, err, transactionNotFound)
		return
	}
	s.logTransaction(r, applog.OpUpdate, updated)
	SuccessResponse(http.StatusOK, updated).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := s.parser.ParseID(w, r)
	if err != nil {
		s.writeError(w, r, err, transactionNotFound)
		return
	}
	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		s.writeError(w, r, err, transactionNotFound)
		return
	}
	s.logger.LogLedgerMutation(r.Context(), applog.OpDelete, string(core.EntityTransaction), id, "", "", 0)
	NewJSONResponse().Write(w)
}

func (s *Server) logTransaction(r *http.Request, op string, tx core.Transaction) {
	s.logger.LogLedgerMutation(r.Context(), op, string(core.EntityTransaction), tx.ID, tx.Category, tx.Month, tx.Amount)
}
