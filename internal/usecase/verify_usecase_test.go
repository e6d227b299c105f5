package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/Catson28/financial-ledger-system/internal/domain"
	"github.com/Catson28/financial-ledger-system/internal/usecase"
	"github.com/Catson28/financial-ledger-system/internal/usecase/mocks"
)

func TestVerifyUseCase_VerifyIntegrity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txnRepo := mocks.NewMockTransactionRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)

	txnRepo.EXPECT().ListPosted(gomock.Any(), gomock.Any(), 0).Return([]*domain.Transaction{
		{ID: "txn-1", Number: "20250315-000001"},
		{ID: "txn-2", Number: "20250315-000002"},
	}, nil)

	entryRepo.EXPECT().GetByTransaction(gomock.Any(), "txn-1").Return([]*domain.JournalEntry{
		{Side: domain.SideDebit, Amount: decimal.NewFromInt(100)},
		{Side: domain.SideCredit, Amount: decimal.NewFromInt(100)},
	}, nil)

	// Tampered: stored entries no longer balance.
	entryRepo.EXPECT().GetByTransaction(gomock.Any(), "txn-2").Return([]*domain.JournalEntry{
		{Side: domain.SideDebit, Amount: decimal.NewFromInt(100)},
		{Side: domain.SideCredit, Amount: decimal.NewFromInt(90)},
	}, nil)

	uc := usecase.NewVerifyUseCase(txnRepo, entryRepo)

	results, err := uc.VerifyIntegrity(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Balanced {
		t.Error("expected txn-1 to be balanced")
	}
	if results[1].Balanced {
		t.Error("expected txn-2 to be flagged unbalanced")
	}
}

func TestVerifyUseCase_VerifyIntegrity_RecordsViolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txnRepo := mocks.NewMockTransactionRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	txMgr := mocks.NewMockTransactionManager(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	txnRepo.EXPECT().ListPosted(gomock.Any(), gomock.Any(), 0).Return([]*domain.Transaction{
		{ID: "txn-1", Number: "20250315-000001"},
	}, nil)
	entryRepo.EXPECT().GetByTransaction(gomock.Any(), "txn-1").Return([]*domain.JournalEntry{
		{Side: domain.SideDebit, Amount: decimal.NewFromInt(100)},
		{Side: domain.SideCredit, Amount: decimal.NewFromInt(90)},
	}, nil)

	txMgr.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	auditRepo.EXPECT().CreateTx(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, record *domain.AuditRecord) error {
			if record.EventType != domain.EventIntegrityViolation {
				t.Errorf("expected event %s, got %s", domain.EventIntegrityViolation, record.EventType)
			}
			if record.Severity != domain.SeverityCritical {
				t.Errorf("expected CRITICAL severity, got %s", record.Severity)
			}
			if record.TransactionID == nil || *record.TransactionID != "txn-1" {
				t.Errorf("expected violation record to reference txn-1")
			}
			if record.Metadata["total_debits"] != "100" || record.Metadata["total_credits"] != "90" {
				t.Errorf("expected totals in metadata, got %v", record.Metadata)
			}
			return nil
		})

	uc := usecase.NewVerifyUseCase(txnRepo, entryRepo).WithAuditTrail(txMgr, auditRepo)

	results, err := uc.VerifyIntegrity(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Balanced {
		t.Fatalf("expected one unbalanced result, got %+v", results)
	}
}

func TestVerifyUseCase_VerifyHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txnRepo := mocks.NewMockTransactionRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)

	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	entries := []*domain.JournalEntry{
		{AccountCode: "1000", Side: domain.SideDebit, Amount: decimal.NewFromInt(100)},
		{AccountCode: "4000", Side: domain.SideCredit, Amount: decimal.NewFromInt(100)},
	}
	hash := domain.TransactionDigest("txn-1", date, domain.DigestLinesFromEntries(entries))

	txnRepo.EXPECT().GetByID(gomock.Any(), "txn-1").Return(&domain.Transaction{
		ID:   "txn-1",
		Date: date,
		Hash: hash,
	}, nil)
	entryRepo.EXPECT().GetByTransaction(gomock.Any(), "txn-1").Return(entries, nil)

	uc := usecase.NewVerifyUseCase(txnRepo, entryRepo)

	check, err := uc.VerifyHash(context.Background(), "txn-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.Match {
		t.Errorf("expected hash match, stored %s recalculated %s", check.Stored, check.Recalculated)
	}
}

func TestVerifyUseCase_VerifyHash_MismatchRecordsViolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txnRepo := mocks.NewMockTransactionRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	txMgr := mocks.NewMockTransactionManager(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	stored := domain.TransactionDigest("txn-1", date, []domain.DigestLine{
		{AccountCode: "1000", Side: domain.SideDebit, Amount: decimal.NewFromInt(100)},
		{AccountCode: "4000", Side: domain.SideCredit, Amount: decimal.NewFromInt(100)},
	})

	txnRepo.EXPECT().GetByID(gomock.Any(), "txn-1").Return(&domain.Transaction{
		ID:   "txn-1",
		Date: date,
		Hash: stored,
	}, nil)
	entryRepo.EXPECT().GetByTransaction(gomock.Any(), "txn-1").Return([]*domain.JournalEntry{
		{AccountCode: "1000", Side: domain.SideDebit, Amount: decimal.NewFromInt(999)},
		{AccountCode: "4000", Side: domain.SideCredit, Amount: decimal.NewFromInt(999)},
	}, nil)

	txMgr.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	auditRepo.EXPECT().CreateTx(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, record *domain.AuditRecord) error {
			if record.EventType != domain.EventIntegrityViolation {
				t.Errorf("expected event %s, got %s", domain.EventIntegrityViolation, record.EventType)
			}
			if record.Severity != domain.SeverityCritical {
				t.Errorf("expected CRITICAL severity, got %s", record.Severity)
			}
			if record.Metadata["stored"] != stored {
				t.Errorf("expected stored hash in metadata")
			}
			return nil
		})

	uc := usecase.NewVerifyUseCase(txnRepo, entryRepo).WithAuditTrail(txMgr, auditRepo)

	check, err := uc.VerifyHash(context.Background(), "txn-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Match {
		t.Error("expected hash mismatch after tampering")
	}
}

func TestVerifyUseCase_VerifyHash_Mismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txnRepo := mocks.NewMockTransactionRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)

	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	txnRepo.EXPECT().GetByID(gomock.Any(), "txn-1").Return(&domain.Transaction{
		ID:   "txn-1",
		Date: date,
		Hash: domain.TransactionDigest("txn-1", date, []domain.DigestLine{
			{AccountCode: "1000", Side: domain.SideDebit, Amount: decimal.NewFromInt(100)},
			{AccountCode: "4000", Side: domain.SideCredit, Amount: decimal.NewFromInt(100)},
		}),
	}, nil)

	// Amount altered after posting.
	entryRepo.EXPECT().GetByTransaction(gomock.Any(), "txn-1").Return([]*domain.JournalEntry{
		{AccountCode: "1000", Side: domain.SideDebit, Amount: decimal.NewFromInt(999)},
		{AccountCode: "4000", Side: domain.SideCredit, Amount: decimal.NewFromInt(999)},
	}, nil)

	uc := usecase.NewVerifyUseCase(txnRepo, entryRepo)

	check, err := uc.VerifyHash(context.Background(), "txn-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Match {
		t.Error("expected hash mismatch after tampering")
	}
	if check.Stored == check.Recalculated {
		t.Error("expected stored and recalculated hashes to differ")
	}
}
