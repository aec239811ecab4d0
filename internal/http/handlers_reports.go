package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"moneymate/internal/export"
	"moneymate/internal/log"
	"moneymate/internal/report"
	"moneymate/internal/services"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Summary(r.Context())
	if err != nil {
		serverError(w, r, "Failed to compute summary", err)
		return
	}
	NewResponse().JSON(sum).Write(w)
}

func (s *Server) handleSummaryCategories(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Summary(r.Context())
	if err != nil {
		serverError(w, r, "Failed to compute summary", err)
		return
	}
	NewResponse().JSON(sum.PerCategory).Write(w)
}

func (s *Server) handleSummaryMonths(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Summary(r.Context())
	if err != nil {
		serverError(w, r, "Failed to compute summary", err)
		return
	}
	NewResponse().JSON(sum.PerMonth).Write(w)
}

// filteredReport parses the query filter and builds the report. It writes
// the error response itself and returns nil on failure.
func (s *Server) filteredReport(w http.ResponseWriter, r *http.Request) *report.Report {
	f, err := ParseFilter(r.URL.Query(), s.svc.Today())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return nil
	}
	rep, err := s.svc.Report(r.Context(), f)
	if err != nil {
		serverError(w, r, "Failed to build report", err)
		return nil
	}
	return rep
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep := s.filteredReport(w, r)
	if rep == nil {
		return
	}
	NewResponse().JSON(newReportDTO(rep)).Write(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	rep := s.filteredReport(w, r)
	if rep == nil {
		return
	}

	format := mux.Vars(r)["format"]
	var (
		buf         bytes.Buffer
		filename    string
		contentType string
		err         error
	)
	switch format {
	case "csv":
		filename, contentType = export.CSVFilename(rep.GeneratedAt), contentTypeCSV
		err = export.WriteCSV(&buf, rep.Transactions)
	case "json":
		filename, contentType = export.BackupFilename(rep.GeneratedAt), contentTypeJSON
		err = export.WriteBackup(&buf, rep.Transactions, rep.GeneratedAt)
	case "xlsx":
		filename, contentType = export.ReportFilename(rep, "xlsx"), contentTypeXLSX
		err = export.WriteXLSX(&buf, rep)
	case "pdf":
		filename, contentType = export.ReportFilename(rep, "pdf"), contentTypePDF
		err = export.WritePDF(&buf, rep)
	default:
		NotFoundError("Unknown export format").Write(w)
		return
	}
	if err != nil {
		serverError(w, r, "Failed to render export", err)
		return
	}

	fields := log.NewFields().
		WithComponent(log.ComponentExport).
		WithOperation(log.OpExport).
		WithCount(len(rep.Transactions))
	log.FromContext(r.Context()).InfoContext(r.Context(), "Export rendered",
		append(fields.ToSlice(), log.FieldFormat, format)...)
	NewResponse().Attachment(filename, contentType, buf.Bytes()).Write(w)
}

func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if !s.svc.SheetsEnabled() {
		ErrorResponse(http.StatusNotImplemented, "Google Sheets export is not configured").Write(w)
		return
	}
	f, err := ParseFilter(r.URL.Query(), s.svc.Today())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	rep, err := s.svc.PublishSheets(r.Context(), f)
	if errors.Is(err, services.ErrSheetsDisabled) {
		ErrorResponse(http.StatusNotImplemented, "Google Sheets export is not configured").Write(w)
		return
	}
	if err != nil {
		serverError(w, r, "Failed to publish to Google Sheets", err)
		return
	}
	NewResponse().JSON(map[string]any{
		"message": "Report published to Google Sheets",
		"count":   len(rep.Transactions),
	}).Write(w)
}
