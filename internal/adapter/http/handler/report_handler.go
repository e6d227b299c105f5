package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Catson28/financial-ledger-system/internal/adapter/http/dto"
	"github.com/Catson28/financial-ledger-system/internal/domain"
	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	GenerateBalanceSheet(ctx context.Context, asOf time.Time, generatedBy string) (*usecase.BalanceSheet, error)
	GenerateIncomeStatement(ctx context.Context, start, end time.Time, generatedBy string) (*usecase.IncomeStatement, error)
	GenerateGeneralLedger(ctx context.Context, accountCode string, limit, offset int) (*usecase.GeneralLedger, error)
	AuditTrail(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, error)
}

// ReportHandler handles reporting HTTP requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// BalanceSheet builds a balance sheet as of a date ("as_of" query
// parameter, defaulting to now).
func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().UTC()
	if t := parseTimeQuery(r, "as_of"); t != nil {
		asOf = *t
	}

	report, err := h.reportUC.GenerateBalanceSheet(r.Context(), asOf, r.Header.Get("X-Actor-ID"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build balance sheet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// IncomeStatement nets revenue and expense over a window given by "start"
// and "end" query parameters.
func (h *ReportHandler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	start := parseTimeQuery(r, "start")
	end := parseTimeQuery(r, "end")
	if start == nil || end == nil {
		writeError(w, http.StatusBadRequest, "missing start or end", "both must be RFC3339 timestamps")
		return
	}

	report, err := h.reportUC.GenerateIncomeStatement(r.Context(), *start, *end, r.Header.Get("X-Actor-ID"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build income statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GeneralLedger lists one account's activity with a running balance.
func (h *ReportHandler) GeneralLedger(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing account code", "")
		return
	}

	report, err := h.reportUC.GenerateGeneralLedger(r.Context(), code,
		parseIntQuery(r, "limit", 100),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build general ledger", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// AuditTrail lists audit records matching query filters.
func (h *ReportHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{
		Start:         parseTimeQuery(r, "start"),
		End:           parseTimeQuery(r, "end"),
		EventType:     r.URL.Query().Get("event_type"),
		ActorID:       r.URL.Query().Get("actor_id"),
		TransactionID: r.URL.Query().Get("transaction_id"),
		Limit:         parseIntQuery(r, "limit", 100),
		Offset:        parseIntQuery(r, "offset", 0),
	}

	records, err := h.reportUC.AuditTrail(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list audit records", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": dto.AuditRecordsFromDomain(records),
		"total":   len(records),
	})
}
