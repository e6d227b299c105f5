package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

// VerifyService defines the behavior needed by VerifyHandler.
type VerifyService interface {
	VerifyIntegrity(ctx context.Context) ([]usecase.VerificationResult, error)
	VerifyHash(ctx context.Context, transactionID string) (*usecase.HashCheck, error)
}

// VerifyHandler handles integrity verification HTTP requests.
type VerifyHandler struct {
	verifyUC VerifyService
}

// NewVerifyHandler creates a new VerifyHandler.
func NewVerifyHandler(verifyUC VerifyService) *VerifyHandler {
	return &VerifyHandler{verifyUC: verifyUC}
}

// Integrity re-checks the double-entry invariant across the whole ledger.
func (h *VerifyHandler) Integrity(w http.ResponseWriter, r *http.Request) {
	results, err := h.verifyUC.VerifyIntegrity(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "integrity scan failed", err.Error())
		return
	}

	violations := 0
	for _, res := range results {
		if !res.Balanced {
			violations++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"checked":    len(results),
		"violations": violations,
		"results":    results,
	})
}

// Hash recomputes one transaction's content hash from stored data.
func (h *VerifyHandler) Hash(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	check, err := h.verifyUC.VerifyHash(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "hash verification failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, check)
}
