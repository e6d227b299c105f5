package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Catson28/financial-ledger-system/internal/adapter/http/dto"
	"github.com/Catson28/financial-ledger-system/internal/domain"
	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

// PeriodService defines the behavior needed by PeriodHandler.
type PeriodService interface {
	ClosePeriod(ctx context.Context, input usecase.ClosePeriodInput) (*domain.ClosingPeriod, error)
	ListPeriods(ctx context.Context, limit, offset int) ([]*domain.ClosingPeriod, error)
}

// PeriodHandler handles period closing HTTP requests.
type PeriodHandler struct {
	periodUC PeriodService
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodUC PeriodService) *PeriodHandler {
	return &PeriodHandler{periodUC: periodUC}
}

// Close snapshots account activity over a window and records the period.
func (h *PeriodHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req dto.ClosePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	period, err := h.periodUC.ClosePeriod(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to close period", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PeriodFromDomain(period))
}

// List returns recorded closing periods, newest first.
func (h *PeriodHandler) List(w http.ResponseWriter, r *http.Request) {
	periods, err := h.periodUC.ListPeriods(r.Context(),
		parseIntQuery(r, "limit", 50),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list periods", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"periods": dto.PeriodsFromDomain(periods),
		"total":   len(periods),
	})
}
