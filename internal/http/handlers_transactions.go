package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"moneymate/internal/core"
	"moneymate/internal/log"
)

const (
	msgInvalidTransaction = "Invalid transaction data"
	msgNotFound           = "Transaction not found"
	msgInvalidBody        = "Invalid request body"
)

// writeTransactionError maps service errors of the transaction endpoints.
func writeTransactionError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		ValidationErrorResponse(msgInvalidTransaction, verr).Write(w)
	case errors.Is(err, core.ErrNotFound):
		NotFoundError(msgNotFound).Write(w)
	default:
		serverError(w, r, msg, err)
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilter(r.URL.Query(), s.svc.Today())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	txs, err := s.svc.List(r.Context(), f.Criteria)
	if err != nil {
		serverError(w, r, "Failed to list transactions", err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	NewResponse().JSON(txs).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeTransactionError(w, r, "Failed to get transaction", err)
		return
	}
	NewResponse().JSON(tx).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var d core.Draft
	if err := decodeJSON(w, r, &d); err != nil {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Rejected transaction body", log.FieldError, err)
		BadRequestError(msgInvalidBody).Write(w)
		return
	}
	d.Note = sanitizeInput(d.Note)

	tx, err := s.svc.Create(r.Context(), d)
	if err != nil {
		writeTransactionError(w, r, "Failed to create transaction", err)
		return
	}
	NewResponse().
		Status(http.StatusCreated).
		Header("Location", "/transactions/"+tx.ID).
		JSON(tx).
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var p core.Patch
	if err := decodeJSON(w, r, &p); err != nil {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Rejected transaction patch", log.FieldError, err)
		BadRequestError(msgInvalidBody).Write(w)
		return
	}
	if p.Note != nil {
		note := sanitizeInput(*p.Note)
		p.Note = &note
	}

	tx, err := s.svc.Update(r.Context(), mux.Vars(r)["id"], p)
	if err != nil {
		writeTransactionError(w, r, "Failed to update transaction", err)
		return
	}
	NewResponse().JSON(tx).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeTransactionError(w, r, "Failed to delete transaction", err)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}
