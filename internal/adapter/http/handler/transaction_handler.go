package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Catson28/financial-ledger-system/internal/adapter/http/dto"
	"github.com/Catson28/financial-ledger-system/internal/domain"
	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

// PostingService defines the posting behavior needed by TransactionHandler.
type PostingService interface {
	PostTransaction(ctx context.Context, input usecase.PostTransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
}

// ReversalService defines the reversal behavior needed by TransactionHandler.
type ReversalService interface {
	ReverseTransaction(ctx context.Context, input usecase.ReverseTransactionInput) (*domain.Transaction, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	postingUC    PostingService
	reversalUC   ReversalService
	sourceSystem string
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(postingUC PostingService, reversalUC ReversalService, sourceSystem string) *TransactionHandler {
	return &TransactionHandler{
		postingUC:    postingUC,
		reversalUC:   reversalUC,
		sourceSystem: sourceSystem,
	}
}

// Post validates and posts a new transaction.
func (h *TransactionHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.postingUC.PostTransaction(r.Context(), req.ToUseCaseInput(h.sourceSystem, r.RemoteAddr))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves a transaction with its entries.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.postingUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Reverse posts the inverse of a posted transaction.
func (h *TransactionHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.ReverseTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "missing reversal reason", "")
		return
	}

	reversal, err := h.reversalUC.ReverseTransaction(r.Context(), usecase.ReverseTransactionInput{
		TransactionID: id,
		Reason:        req.Reason,
		CreatedBy:     req.CreatedBy,
		SourceSystem:  h.sourceSystem,
		SourceIP:      r.RemoteAddr,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reverse transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(reversal))
}
