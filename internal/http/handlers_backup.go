package http

import (
	"errors"
	"net/http"

	"moneymate/internal/core"
	"moneymate/internal/export"
	"moneymate/internal/log"
)

// handleImport appends the transactions of a JSON backup, or of a CSV
// export when the body is declared text/csv. Nothing is written unless
// every record is valid.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var (
		drafts []core.Draft
		err    error
	)
	if isCSV(r) {
		drafts, err = export.ReadCSV(body)
	} else {
		drafts, err = export.ReadBackup(body)
	}
	if err != nil {
		writeImportError(w, r, err)
		return
	}

	txs, err := s.svc.Import(r.Context(), drafts)
	if err != nil {
		writeImportError(w, r, err)
		return
	}
	NewResponse().JSON(map[string]any{
		"message": "Data imported successfully",
		"count":   len(txs),
	}).Write(w)
}

func writeImportError(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, export.ErrImportFormat) {
		serverError(w, r, "Failed to import transactions", err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Import rejected",
		log.FieldOperation, log.OpImport,
		log.FieldError, err)

	resp := ErrorBody{Message: "Invalid data format"}
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = verr.Fields
	}
	NewResponse().Status(http.StatusBadRequest).JSON(resp).Write(w)
}
