package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Catson28/financial-ledger-system/internal/domain"
	"github.com/Catson28/financial-ledger-system/internal/infrastructure/metrics"
)

// ReversalUseCase neutralizes a posted transaction by posting its exact
// inverse and linking the two bidirectionally. The original is never
// mutated beyond the status flip and the reversed-by link, and both writes
// share one atomic unit with the reversal's creation.
type ReversalUseCase struct {
	posting     *PostingUseCase
	txManager   TransactionManager
	txnRepo     TransactionRepository
	entryRepo   EntryRepository
	auditRepo   AuditRepository
	metrics     *metrics.Metrics
	invalidator BalanceInvalidator
}

// NewReversalUseCase creates a new ReversalUseCase.
func NewReversalUseCase(
	posting *PostingUseCase,
	txManager TransactionManager,
	txnRepo TransactionRepository,
	entryRepo EntryRepository,
	auditRepo AuditRepository,
) *ReversalUseCase {
	return &ReversalUseCase{
		posting:   posting,
		txManager: txManager,
		txnRepo:   txnRepo,
		entryRepo: entryRepo,
		auditRepo: auditRepo,
	}
}

// WithMetrics enables Prometheus instrumentation of reversals.
func (uc *ReversalUseCase) WithMetrics(m *metrics.Metrics) *ReversalUseCase {
	uc.metrics = m
	return uc
}

// WithBalanceInvalidator makes successful reversals drop the cached balance
// of every account they touch.
func (uc *ReversalUseCase) WithBalanceInvalidator(inv BalanceInvalidator) *ReversalUseCase {
	uc.invalidator = inv
	return uc
}

// ReverseTransactionInput represents input for reversing a transaction.
type ReverseTransactionInput struct {
	TransactionID string
	Reason        string
	CreatedBy     string
	SourceSystem  string
	SourceIP      string
}

// ReverseTransaction builds and posts the inverse of a posted transaction.
// Preconditions are checked under a row lock before any write: the original
// exists, its status is exactly POSTED, and it has no reversal link. A
// transaction may be the target of at most one reversal, and REVERSED is
// terminal.
func (uc *ReversalUseCase) ReverseTransaction(ctx context.Context, input ReverseTransactionInput) (*domain.Transaction, error) {
	if input.SourceSystem == "" {
		input.SourceSystem = DefaultSourceSystem
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	original, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	if err := original.Reversible(); err != nil {
		return nil, err
	}

	originalEntries, err := uc.entryRepo.GetByTransaction(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	// Flip every side, preserving line order, accounts, amounts and
	// analytical dimensions.
	flipped := make([]domain.EntryInput, 0, len(originalEntries))
	for _, e := range originalEntries {
		memo := "Reversal"
		if e.Memo != "" {
			memo = "Reversal: " + e.Memo
		}

		flipped = append(flipped, domain.EntryInput{
			AccountCode:  e.AccountCode,
			Side:         e.Side.Flip(),
			Amount:       e.Amount,
			CostCenter:   e.CostCenter,
			BusinessUnit: e.BusinessUnit,
			ProjectCode:  e.ProjectCode,
			Memo:         memo,
		})
	}

	now := time.Now().UTC()

	reversal, err := uc.posting.postInTx(ctx, tx, PostTransactionInput{
		Date:         now,
		Entries:      flipped,
		EventType:    "REVERSAL_" + original.EventType,
		Description:  fmt.Sprintf("Reversal of %s: %s", original.Number, input.Reason),
		BusinessKey:  original.BusinessKey,
		Reference:    original.Number,
		CreatedBy:    input.CreatedBy,
		SourceSystem: input.SourceSystem,
		SourceIP:     input.SourceIP,
	}, &reversalLink{
		reversesID: original.ID,
		reason:     input.Reason,
	})
	if err != nil {
		return nil, err
	}

	// The one permitted mutation of a posted header.
	if err := uc.txnRepo.MarkReversedTx(ctx, tx, original.ID, reversal.ID); err != nil {
		return nil, err
	}

	// Reversals are always exceptional, hence the elevated severity.
	audit := &domain.AuditRecord{
		Timestamp:     now,
		TransactionID: &original.ID,
		EventType:     domain.EventTransactionReversed,
		Severity:      domain.SeverityWarning,
		ActorID:       input.CreatedBy,
		SourceSystem:  input.SourceSystem,
		SourceIP:      input.SourceIP,
		Action:        domain.ActionReverseTransaction,
		EntityType:    "transaction",
		EntityID:      original.ID,
		Description:   fmt.Sprintf("Transaction %s reversed by %s", original.Number, reversal.Number),
		Metadata: domain.JSON{
			"reversal_transaction_id": reversal.ID,
			"reversal_reason":         input.Reason,
		},
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsReversed.Inc()
		uc.metrics.AuditRecordsCreated.WithLabelValues(domain.EventTransactionReversed, string(domain.SeverityWarning)).Inc()
	}

	if uc.invalidator != nil {
		uc.invalidator.InvalidateBalances(ctx, entryAccountCodes(flipped)...)
	}

	return reversal, nil
}
