package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Catson28/financial-ledger-system/internal/domain"
)

// ReportUseCase derives statutory reports from posted, hash-stable ledger
// state. Reports are read-only; each carries a content hash so exported
// copies can be checked for tampering.
type ReportUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	auditRepo   AuditRepository
	balance     *BalanceUseCase
	idGen       IDGenerator
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	auditRepo AuditRepository,
	balance *BalanceUseCase,
	idGen IDGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		auditRepo:   auditRepo,
		balance:     balance,
		idGen:       idGen,
	}
}

// ReportLine is one account row in a statement section.
type ReportLine struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// BalanceSheet groups account balances into assets, liabilities and
// equity as of a date.
type BalanceSheet struct {
	GeneratedAt      time.Time       `json:"generated_at"`
	AsOf             time.Time       `json:"as_of"`
	ReportID         string          `json:"report_id"`
	GeneratedBy      string          `json:"generated_by"`
	Hash             string          `json:"hash"`
	Assets           []ReportLine    `json:"assets"`
	Liabilities      []ReportLine    `json:"liabilities"`
	Equity           []ReportLine    `json:"equity"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
	BalanceCheck     bool            `json:"balance_check"`
}

// GenerateBalanceSheet builds a balance sheet from active balance-type
// accounts. Zero balances are omitted.
func (uc *ReportUseCase) GenerateBalanceSheet(ctx context.Context, asOf time.Time, generatedBy string) (*BalanceSheet, error) {
	accounts, err := listAllAccounts(ctx, uc.accountRepo)
	if err != nil {
		return nil, err
	}

	report := &BalanceSheet{
		ReportID:    uc.idGen.Generate(),
		AsOf:        asOf,
		GeneratedAt: time.Now().UTC(),
		GeneratedBy: generatedBy,
	}

	for _, account := range accounts {
		if !account.Active {
			continue
		}

		switch account.Type {
		case domain.AccountTypeAsset, domain.AccountTypeLiability, domain.AccountTypeEquity:
		default:
			continue
		}

		balance, err := uc.balance.GetBalance(ctx, account.Code, &asOf)
		if err != nil {
			return nil, err
		}

		if balance.IsZero() {
			continue
		}

		line := ReportLine{
			AccountCode: account.Code,
			AccountName: account.Name,
			Amount:      balance,
		}

		switch account.Type {
		case domain.AccountTypeAsset:
			report.Assets = append(report.Assets, line)
			report.TotalAssets = report.TotalAssets.Add(balance)
		case domain.AccountTypeLiability:
			report.Liabilities = append(report.Liabilities, line)
			report.TotalLiabilities = report.TotalLiabilities.Add(balance)
		case domain.AccountTypeEquity:
			report.Equity = append(report.Equity, line)
			report.TotalEquity = report.TotalEquity.Add(balance)
		}
	}

	report.BalanceCheck = report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity))
	report.Hash = reportDigest(report)

	return report, nil
}

// IncomeStatement nets revenue and expense activity over a posting-date
// window.
type IncomeStatement struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	ReportID      string          `json:"report_id"`
	GeneratedBy   string          `json:"generated_by"`
	Hash          string          `json:"hash"`
	Revenues      []ReportLine    `json:"revenues"`
	Expenses      []ReportLine    `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
}

// GenerateIncomeStatement builds an income statement over [start, end].
// Revenue increases with credits, expense with debits; zero activity is
// omitted.
func (uc *ReportUseCase) GenerateIncomeStatement(ctx context.Context, start, end time.Time, generatedBy string) (*IncomeStatement, error) {
	accounts, err := listAllAccounts(ctx, uc.accountRepo)
	if err != nil {
		return nil, err
	}

	report := &IncomeStatement{
		ReportID:    uc.idGen.Generate(),
		PeriodStart: start,
		PeriodEnd:   end,
		GeneratedAt: time.Now().UTC(),
		GeneratedBy: generatedBy,
	}

	for _, account := range accounts {
		if !account.Active {
			continue
		}

		if account.Type != domain.AccountTypeRevenue && account.Type != domain.AccountTypeExpense {
			continue
		}

		debits, credits, err := uc.entryRepo.SumByAccountBetween(ctx, account.Code, start, end)
		if err != nil {
			return nil, err
		}

		net := account.Type.Balance(debits, credits)
		if net.IsZero() {
			continue
		}

		line := ReportLine{
			AccountCode: account.Code,
			AccountName: account.Name,
			Amount:      net,
		}

		if account.Type == domain.AccountTypeRevenue {
			report.Revenues = append(report.Revenues, line)
			report.TotalRevenue = report.TotalRevenue.Add(net)
		} else {
			report.Expenses = append(report.Expenses, line)
			report.TotalExpenses = report.TotalExpenses.Add(net)
		}
	}

	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpenses)
	report.Hash = reportDigest(report)

	return report, nil
}

// GeneralLedger is the entry-level activity of one account with a
// running balance.
type GeneralLedger struct {
	GeneratedAt time.Time           `json:"generated_at"`
	AccountCode string              `json:"account_code"`
	AccountName string              `json:"account_name"`
	AccountType domain.AccountType  `json:"account_type"`
	Hash        string              `json:"hash"`
	Lines       []GeneralLedgerLine `json:"lines"`
	Balance     decimal.Decimal     `json:"balance"`
}

// GeneralLedgerLine is one posted entry against the account.
type GeneralLedgerLine struct {
	TransactionID string           `json:"transaction_id"`
	Side          domain.EntrySide `json:"side"`
	Amount        decimal.Decimal  `json:"amount"`
	Memo          string           `json:"memo,omitempty"`
	Running       decimal.Decimal  `json:"running_balance"`
}

// GenerateGeneralLedger lists an account's posted entries with a running
// balance in the account's natural polarity.
func (uc *ReportUseCase) GenerateGeneralLedger(ctx context.Context, accountCode string, limit, offset int) (*GeneralLedger, error) {
	account, err := uc.accountRepo.GetByCode(ctx, accountCode)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	entries, err := uc.entryRepo.ListByAccount(ctx, accountCode, limit, offset)
	if err != nil {
		return nil, err
	}

	report := &GeneralLedger{
		AccountCode: account.Code,
		AccountName: account.Name,
		AccountType: account.Type,
		GeneratedAt: time.Now().UTC(),
	}

	running := decimal.Zero
	for _, entry := range entries {
		var debits, credits decimal.Decimal
		if entry.Side == domain.SideDebit {
			debits = entry.Amount
		} else {
			credits = entry.Amount
		}
		running = running.Add(account.Type.Balance(debits, credits))

		report.Lines = append(report.Lines, GeneralLedgerLine{
			TransactionID: entry.TransactionID,
			Side:          entry.Side,
			Amount:        entry.Amount,
			Memo:          entry.Memo,
			Running:       running,
		})
	}

	report.Balance = running
	report.Hash = reportDigest(report)

	return report, nil
}

// AuditTrail returns audit records matching the filter, newest first.
func (uc *ReportUseCase) AuditTrail(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	return uc.auditRepo.List(ctx, filter)
}

// reportDigest hashes the JSON form of a report with its Hash field still
// empty, so a consumer can verify an exported copy by blanking the field
// and recomputing.
func reportDigest(report any) string {
	data, err := json.Marshal(report)
	if err != nil {
		return ""
	}

	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}
