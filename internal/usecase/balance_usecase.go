package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Catson28/financial-ledger-system/internal/domain"
)

// balanceCacheTTL keeps current-balance reads cheap without letting a
// stale figure survive for long. As-of queries bypass the cache entirely.
const balanceCacheTTL = 10 * time.Second

// BalanceUseCase derives signed account balances from posted entries,
// honoring account-type polarity.
type BalanceUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	cache       Cache
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(accountRepo AccountRepository, entryRepo EntryRepository) *BalanceUseCase {
	return &BalanceUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// WithCache enables short-lived caching of current balances.
func (uc *BalanceUseCase) WithCache(cache Cache) *BalanceUseCase {
	uc.cache = cache
	return uc
}

// GetBalance sums debits and credits across entries of POSTED transactions
// for the account, optionally bounded by posting date, and applies the
// account type's polarity rule.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, accountCode string, asOf *time.Time) (decimal.Decimal, error) {
	if asOf == nil && uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, balanceCacheKey(accountCode)); err == nil {
			var balance decimal.Decimal
			if err := json.Unmarshal(cached, &balance); err == nil {
				return balance, nil
			}
		}
	}

	account, err := uc.accountRepo.GetByCode(ctx, accountCode)
	if err != nil {
		return decimal.Zero, err
	}

	debits, credits, err := uc.entryRepo.SumByAccount(ctx, accountCode, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	balance := account.Type.Balance(debits, credits)

	if asOf == nil && uc.cache != nil {
		if encoded, err := json.Marshal(balance); err == nil {
			_ = uc.cache.Set(ctx, balanceCacheKey(accountCode), encoded, balanceCacheTTL)
		}
	}

	return balance, nil
}

func balanceCacheKey(accountCode string) string {
	return "balance:" + accountCode
}

// InvalidateBalances drops cached balances for the given accounts. Posting
// and reversal call this after commit so the next read recomputes from the
// journal instead of serving a figure from before the write.
func (uc *BalanceUseCase) InvalidateBalances(ctx context.Context, accountCodes ...string) {
	if uc.cache == nil {
		return
	}
	for _, code := range accountCodes {
		_ = uc.cache.Delete(ctx, balanceCacheKey(code))
	}
}

// TrialBalanceLine is one account's row in a trial balance.
type TrialBalanceLine struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	AccountType string          `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
}

// listAllAccounts pages through the complete chart of accounts. Trial
// balances, statements and period closes cover every account, so a single
// capped List call is not enough.
func listAllAccounts(ctx context.Context, repo AccountRepository) ([]*domain.Account, error) {
	var accounts []*domain.Account

	for offset := 0; ; offset += accountPageSize {
		page, err := repo.List(ctx, accountPageSize, offset)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, page...)

		if len(page) < accountPageSize {
			return accounts, nil
		}
	}
}

// TrialBalance lists the balance of every active account, ordered by code,
// together with totals by account type.
func (uc *BalanceUseCase) TrialBalance(ctx context.Context, asOf *time.Time) ([]TrialBalanceLine, map[string]decimal.Decimal, error) {
	accounts, err := listAllAccounts(ctx, uc.accountRepo)
	if err != nil {
		return nil, nil, err
	}

	lines := make([]TrialBalanceLine, 0, len(accounts))
	totals := make(map[string]decimal.Decimal)

	for _, account := range accounts {
		if !account.Active {
			continue
		}

		balance, err := uc.GetBalance(ctx, account.Code, asOf)
		if err != nil {
			return nil, nil, fmt.Errorf("account %s: %w", account.Code, err)
		}

		lines = append(lines, TrialBalanceLine{
			AccountCode: account.Code,
			AccountName: account.Name,
			AccountType: string(account.Type),
			Balance:     balance,
		})

		totals[string(account.Type)] = totals[string(account.Type)].Add(balance)
	}

	return lines, totals, nil
}
