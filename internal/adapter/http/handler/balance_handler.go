package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Catson28/financial-ledger-system/internal/adapter/http/dto"
	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetBalance(ctx context.Context, accountCode string, asOf *time.Time) (decimal.Decimal, error)
	TrialBalance(ctx context.Context, asOf *time.Time) ([]usecase.TrialBalanceLine, map[string]decimal.Decimal, error)
}

// BalanceHandler handles balance-related HTTP requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get derives one account's balance, optionally as of a point in time
// given by an RFC3339 "as_of" query parameter.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing account code", "")
		return
	}

	asOf := parseTimeQuery(r, "as_of")

	balance, err := h.balanceUC.GetBalance(r.Context(), code, asOf)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountCode: code,
		Balance:     balance,
		AsOf:        asOf,
	})
}

// TrialBalance lists the balance of every active account with totals per
// account type.
func (h *BalanceHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	asOf := parseTimeQuery(r, "as_of")

	lines, totals, err := h.balanceUC.TrialBalance(r.Context(), asOf)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build trial balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"lines":  lines,
		"totals": totals,
		"as_of":  asOf,
	})
}
