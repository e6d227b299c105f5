package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Catson28/financial-ledger-system/internal/adapter/http/dto"
	"github.com/Catson28/financial-ledger-system/internal/domain"
	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

type postingServiceStub struct {
	postFn func(ctx context.Context, input usecase.PostTransactionInput) (*domain.Transaction, error)
	getFn  func(ctx context.Context, id string) (*domain.Transaction, error)
}

func (s *postingServiceStub) PostTransaction(ctx context.Context, input usecase.PostTransactionInput) (*domain.Transaction, error) {
	return s.postFn(ctx, input)
}

func (s *postingServiceStub) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, id)
}

type reversalServiceStub struct {
	reverseFn func(ctx context.Context, input usecase.ReverseTransactionInput) (*domain.Transaction, error)
}

func (s *reversalServiceStub) ReverseTransaction(ctx context.Context, input usecase.ReverseTransactionInput) (*domain.Transaction, error) {
	return s.reverseFn(ctx, input)
}

func TestTransactionHandler_Post_Success(t *testing.T) {
	posted := &domain.Transaction{
		ID:     "txn-1",
		Number: "20260115-000001",
		Status: domain.StatusPosted,
	}

	var captured usecase.PostTransactionInput
	handler := NewTransactionHandler(&postingServiceStub{
		postFn: func(ctx context.Context, input usecase.PostTransactionInput) (*domain.Transaction, error) {
			captured = input
			return posted, nil
		},
	}, &reversalServiceStub{}, "TEST_SYSTEM")

	body, _ := json.Marshal(dto.PostTransactionRequest{
		Date:      time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		EventType: "INVOICE_ISSUED",
		CreatedBy: "alice",
		Entries: []dto.EntryRequest{
			{AccountCode: "1000", Side: "DEBIT", Amount: decimal.RequireFromString("250.00")},
			{AccountCode: "4000", Side: "CREDIT", Amount: decimal.RequireFromString("250.00")},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if len(captured.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(captured.Entries))
	}
	if captured.Entries[0].Side != domain.SideDebit || captured.Entries[1].Side != domain.SideCredit {
		t.Fatalf("expected entry sides to propagate, got %+v", captured.Entries)
	}
	if captured.SourceSystem != "TEST_SYSTEM" {
		t.Fatalf("expected source system TEST_SYSTEM, got %s", captured.SourceSystem)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Number != "20260115-000001" {
		t.Fatalf("expected transaction number to round-trip, got %s", resp.Number)
	}
}

func TestTransactionHandler_Post_InvalidJSON(t *testing.T) {
	handler := NewTransactionHandler(&postingServiceStub{
		postFn: func(ctx context.Context, input usecase.PostTransactionInput) (*domain.Transaction, error) {
			t.Fatal("PostTransaction should not be called for invalid payload")
			return nil, nil
		},
	}, &reversalServiceStub{}, "TEST_SYSTEM")

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString("{invalid"))
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Post_Unbalanced(t *testing.T) {
	handler := NewTransactionHandler(&postingServiceStub{
		postFn: func(ctx context.Context, input usecase.PostTransactionInput) (*domain.Transaction, error) {
			return nil, domain.ErrUnbalanced
		},
	}, &reversalServiceStub{}, "TEST_SYSTEM")

	body, _ := json.Marshal(dto.PostTransactionRequest{EventType: "INVOICE_ISSUED"})
	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Get(t *testing.T) {
	txn := &domain.Transaction{ID: "txn-1", Number: "20260115-000001"}
	handler := NewTransactionHandler(&postingServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Transaction, error) {
			if id != "txn-1" {
				t.Fatalf("expected id txn-1, got %s", id)
			}
			return txn, nil
		},
	}, &reversalServiceStub{}, "TEST_SYSTEM")

	req := httptest.NewRequest(http.MethodGet, "/transactions/txn-1", nil)
	req = setChiURLParam(req, "id", "txn-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTransactionHandler_Get_NotFound(t *testing.T) {
	handler := NewTransactionHandler(&postingServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Transaction, error) {
			return nil, domain.ErrTransactionNotFound
		},
	}, &reversalServiceStub{}, "TEST_SYSTEM")

	req := httptest.NewRequest(http.MethodGet, "/transactions/missing", nil)
	req = setChiURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTransactionHandler_Reverse_Success(t *testing.T) {
	reversal := &domain.Transaction{ID: "txn-2", IsReversal: true}

	var captured usecase.ReverseTransactionInput
	handler := NewTransactionHandler(&postingServiceStub{}, &reversalServiceStub{
		reverseFn: func(ctx context.Context, input usecase.ReverseTransactionInput) (*domain.Transaction, error) {
			captured = input
			return reversal, nil
		},
	}, "TEST_SYSTEM")

	body, _ := json.Marshal(dto.ReverseTransactionRequest{Reason: "duplicate invoice", CreatedBy: "bob"})
	req := httptest.NewRequest(http.MethodPost, "/transactions/txn-1/reverse", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "txn-1")
	rec := httptest.NewRecorder()

	handler.Reverse(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.TransactionID != "txn-1" || captured.Reason != "duplicate invoice" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
}

func TestTransactionHandler_Reverse_MissingReason(t *testing.T) {
	handler := NewTransactionHandler(&postingServiceStub{}, &reversalServiceStub{
		reverseFn: func(ctx context.Context, input usecase.ReverseTransactionInput) (*domain.Transaction, error) {
			t.Fatal("ReverseTransaction should not be called without a reason")
			return nil, nil
		},
	}, "TEST_SYSTEM")

	body, _ := json.Marshal(dto.ReverseTransactionRequest{CreatedBy: "bob"})
	req := httptest.NewRequest(http.MethodPost, "/transactions/txn-1/reverse", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "txn-1")
	rec := httptest.NewRecorder()

	handler.Reverse(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Reverse_AlreadyReversed(t *testing.T) {
	handler := NewTransactionHandler(&postingServiceStub{}, &reversalServiceStub{
		reverseFn: func(ctx context.Context, input usecase.ReverseTransactionInput) (*domain.Transaction, error) {
			return nil, domain.ErrAlreadyReversed
		},
	}, "TEST_SYSTEM")

	body, _ := json.Marshal(dto.ReverseTransactionRequest{Reason: "duplicate"})
	req := httptest.NewRequest(http.MethodPost, "/transactions/txn-1/reverse", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "txn-1")
	rec := httptest.NewRecorder()

	handler.Reverse(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
