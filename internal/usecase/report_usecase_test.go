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

func TestReportUseCase_GenerateBalanceSheet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	asOf := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	accountRepo.EXPECT().List(gomock.Any(), gomock.Any(), 0).Return([]*domain.Account{
		activeAccount("acc-1", "1000", domain.AccountTypeAsset),
		activeAccount("acc-2", "2000", domain.AccountTypeLiability),
		activeAccount("acc-3", "3000", domain.AccountTypeEquity),
		activeAccount("acc-4", "4000", domain.AccountTypeRevenue),
	}, nil)

	accountRepo.EXPECT().GetByCode(gomock.Any(), "1000").Return(activeAccount("acc-1", "1000", domain.AccountTypeAsset), nil)
	entryRepo.EXPECT().SumByAccount(gomock.Any(), "1000", &asOf).Return(decimal.NewFromInt(1000), decimal.Zero, nil)

	accountRepo.EXPECT().GetByCode(gomock.Any(), "2000").Return(activeAccount("acc-2", "2000", domain.AccountTypeLiability), nil)
	entryRepo.EXPECT().SumByAccount(gomock.Any(), "2000", &asOf).Return(decimal.Zero, decimal.NewFromInt(400), nil)

	accountRepo.EXPECT().GetByCode(gomock.Any(), "3000").Return(activeAccount("acc-3", "3000", domain.AccountTypeEquity), nil)
	entryRepo.EXPECT().SumByAccount(gomock.Any(), "3000", &asOf).Return(decimal.Zero, decimal.NewFromInt(600), nil)

	idGen.EXPECT().Generate().Return("rpt-1")

	balance := usecase.NewBalanceUseCase(accountRepo, entryRepo)
	uc := usecase.NewReportUseCase(accountRepo, entryRepo, auditRepo, balance, idGen)

	report, err := uc.GenerateBalanceSheet(context.Background(), asOf, "cfo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.TotalAssets.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected assets 1000, got %s", report.TotalAssets)
	}
	if !report.BalanceCheck {
		t.Error("expected assets to equal liabilities plus equity")
	}
	if len(report.Assets) != 1 || len(report.Liabilities) != 1 || len(report.Equity) != 1 {
		t.Error("expected one line per section")
	}
	if report.Hash == "" {
		t.Error("expected report hash to be set")
	}
}

func TestReportUseCase_GenerateIncomeStatement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	accountRepo.EXPECT().List(gomock.Any(), gomock.Any(), 0).Return([]*domain.Account{
		activeAccount("acc-1", "4000", domain.AccountTypeRevenue),
		activeAccount("acc-2", "5000", domain.AccountTypeExpense),
		activeAccount("acc-3", "1000", domain.AccountTypeAsset),
	}, nil)

	entryRepo.EXPECT().SumByAccountBetween(gomock.Any(), "4000", start, end).Return(decimal.Zero, decimal.NewFromInt(900), nil)
	entryRepo.EXPECT().SumByAccountBetween(gomock.Any(), "5000", start, end).Return(decimal.NewFromInt(350), decimal.Zero, nil)

	idGen.EXPECT().Generate().Return("rpt-2")

	balance := usecase.NewBalanceUseCase(accountRepo, entryRepo)
	uc := usecase.NewReportUseCase(accountRepo, entryRepo, auditRepo, balance, idGen)

	report, err := uc.GenerateIncomeStatement(context.Background(), start, end, "cfo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.TotalRevenue.Equal(decimal.NewFromInt(900)) {
		t.Errorf("expected revenue 900, got %s", report.TotalRevenue)
	}
	if !report.TotalExpenses.Equal(decimal.NewFromInt(350)) {
		t.Errorf("expected expenses 350, got %s", report.TotalExpenses)
	}
	if !report.NetIncome.Equal(decimal.NewFromInt(550)) {
		t.Errorf("expected net income 550, got %s", report.NetIncome)
	}
}

func TestReportUseCase_GenerateGeneralLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	accountRepo.EXPECT().GetByCode(gomock.Any(), "1000").Return(activeAccount("acc-1", "1000", domain.AccountTypeAsset), nil)
	entryRepo.EXPECT().ListByAccount(gomock.Any(), "1000", 100, 0).Return([]*domain.JournalEntry{
		{TransactionID: "txn-1", Side: domain.SideDebit, Amount: decimal.NewFromInt(500)},
		{TransactionID: "txn-2", Side: domain.SideCredit, Amount: decimal.NewFromInt(200)},
	}, nil)

	balance := usecase.NewBalanceUseCase(accountRepo, entryRepo)
	uc := usecase.NewReportUseCase(accountRepo, entryRepo, auditRepo, balance, idGen)

	report, err := uc.GenerateGeneralLedger(context.Background(), "1000", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(report.Lines))
	}
	if !report.Lines[0].Running.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected running 500 after debit, got %s", report.Lines[0].Running)
	}
	if !report.Balance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected closing balance 300, got %s", report.Balance)
	}
}
