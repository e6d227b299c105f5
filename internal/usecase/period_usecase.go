package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Catson28/financial-ledger-system/internal/domain"
)

// PeriodUseCase records closing period snapshots. A snapshot freezes the
// period's total debits and credits and whether they balanced; it does not
// block posting into the period, which is left to surrounding systems.
type PeriodUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	periodRepo  PeriodRepository
	idGen       IDGenerator
}

// NewPeriodUseCase creates a new PeriodUseCase.
func NewPeriodUseCase(
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	periodRepo PeriodRepository,
	idGen IDGenerator,
) *PeriodUseCase {
	return &PeriodUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		periodRepo:  periodRepo,
		idGen:       idGen,
	}
}

// ClosePeriodInput represents input for closing a period.
type ClosePeriodInput struct {
	Type     domain.PeriodType
	Start    time.Time
	End      time.Time
	ClosedBy string
}

// ClosePeriod sums all posted activity in the window and persists the
// snapshot. An imbalance does not abort the close; it is recorded in the
// snapshot for investigation.
func (uc *PeriodUseCase) ClosePeriod(ctx context.Context, input ClosePeriodInput) (*domain.ClosingPeriod, error) {
	if !input.End.After(input.Start) {
		return nil, fmt.Errorf("period end %s is not after start %s", input.End, input.Start)
	}

	accounts, err := listAllAccounts(ctx, uc.accountRepo)
	if err != nil {
		return nil, err
	}

	totalDebits := decimal.Zero
	totalCredits := decimal.Zero

	for _, account := range accounts {
		debits, credits, err := uc.entryRepo.SumByAccountBetween(ctx, account.Code, input.Start, input.End)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", account.Code, err)
		}

		totalDebits = totalDebits.Add(debits)
		totalCredits = totalCredits.Add(credits)
	}

	now := time.Now().UTC()

	period := &domain.ClosingPeriod{
		ID:           uc.idGen.Generate(),
		Type:         input.Type,
		PeriodStart:  input.Start,
		PeriodEnd:    input.End,
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		BalanceCheck: totalDebits.Equal(totalCredits),
		Closed:       true,
		ClosedAt:     &now,
		ClosedBy:     input.ClosedBy,
		CreatedAt:    now,
	}

	if err := uc.periodRepo.Create(ctx, period); err != nil {
		return nil, err
	}

	return period, nil
}

// ListPeriods lists recorded closing periods, newest first.
func (uc *PeriodUseCase) ListPeriods(ctx context.Context, limit, offset int) ([]*domain.ClosingPeriod, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	return uc.periodRepo.List(ctx, limit, offset)
}
