package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Catson28/financial-ledger-system/internal/domain"
	"github.com/Catson28/financial-ledger-system/internal/infrastructure/metrics"
)

// PostingUseCase is the posting coordinator: it turns a candidate
// transaction into permanent ledger fact in one atomic unit. Either the
// header, every entry and the audit record become visible together, or
// nothing is persisted at all.
type PostingUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	entryRepo   EntryRepository
	auditRepo   AuditRepository
	allocator   NumberAllocator
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
	invalidator BalanceInvalidator
}

// BalanceInvalidator drops cached balances after a successful write.
type BalanceInvalidator interface {
	InvalidateBalances(ctx context.Context, accountCodes ...string)
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	entryRepo EntryRepository,
	auditRepo AuditRepository,
	allocator NumberAllocator,
	idGen IDGenerator,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		entryRepo:   entryRepo,
		auditRepo:   auditRepo,
		allocator:   allocator,
		idGen:       idGen,
	}
}

// WithRetrier makes the posting pipeline retry on transient storage
// failures. Retrying is always safe: a failed post leaves zero persisted
// state.
func (uc *PostingUseCase) WithRetrier(r Retrier) *PostingUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables Prometheus instrumentation of the posting pipeline.
func (uc *PostingUseCase) WithMetrics(m *metrics.Metrics) *PostingUseCase {
	uc.metrics = m
	return uc
}

// WithBalanceInvalidator makes successful posts drop the cached balance of
// every account they touch.
func (uc *PostingUseCase) WithBalanceInvalidator(inv BalanceInvalidator) *PostingUseCase {
	uc.invalidator = inv
	return uc
}

// PostTransactionInput represents input for posting a transaction.
type PostTransactionInput struct {
	Date         time.Time
	Entries      []domain.EntryInput
	EventType    string
	Description  string
	BusinessKey  string
	Reference    string
	CreatedBy    string
	SourceSystem string
	SourceIP     string
}

// reversalLink carries the linkage fields stamped onto a reversal
// transaction at insert time.
type reversalLink struct {
	reversesID string
	reason     string
}

// PostTransaction validates, numbers, hashes and persists a transaction
// with all of its entries and one audit record, directly in POSTED status.
// On any failure the whole unit rolls back; a failed attempt leaves no
// trace, including in the audit trail.
func (uc *PostingUseCase) PostTransaction(ctx context.Context, input PostTransactionInput) (*domain.Transaction, error) {
	start := time.Now()

	// Pure validation happens before any database interaction. A zero date
	// would otherwise be numbered under day 00010101.
	if input.Date.IsZero() {
		if uc.metrics != nil {
			uc.metrics.PostingErrors.WithLabelValues("validation").Inc()
		}
		return nil, domain.ErrMissingDate
	}
	if err := domain.ValidateEntries(input.Entries); err != nil {
		if uc.metrics != nil {
			uc.metrics.PostingErrors.WithLabelValues("validation").Inc()
		}
		return nil, err
	}

	if input.SourceSystem == "" {
		input.SourceSystem = DefaultSourceSystem
	}

	// One deadline covers the whole unit so a stalled attempt releases its
	// row locks instead of holding them indefinitely.
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	var txn *domain.Transaction

	post := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		txn, err = uc.postInTx(ctx, tx, input, nil)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, post)
	} else {
		err = post()
	}
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.PostingErrors.WithLabelValues("storage").Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsPosted.Inc()
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
		uc.metrics.EntriesPerTransaction.Observe(float64(len(input.Entries)))
		uc.metrics.AuditRecordsCreated.WithLabelValues(input.EventType, string(domain.SeverityInfo)).Inc()
	}

	if uc.invalidator != nil {
		uc.invalidator.InvalidateBalances(ctx, entryAccountCodes(input.Entries)...)
	}

	return txn, nil
}

// entryAccountCodes returns the distinct account codes touched by entries,
// in first-appearance order.
func entryAccountCodes(entries []domain.EntryInput) []string {
	seen := make(map[string]struct{}, len(entries))
	codes := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.AccountCode]; ok {
			continue
		}
		seen[e.AccountCode] = struct{}{}
		codes = append(codes, e.AccountCode)
	}
	return codes
}

// postInTx runs the posting pipeline inside an already-open database
// transaction. The reversal coordinator reuses it so a reversal's new
// transaction and the mutation of its original share one atomic unit.
func (uc *PostingUseCase) postInTx(ctx context.Context, tx Transaction, input PostTransactionInput, link *reversalLink) (*domain.Transaction, error) {
	accounts, err := uc.resolveAccounts(ctx, tx, input.Entries)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	number, err := uc.allocator.Next(ctx, tx, input.Date)
	if err != nil {
		return nil, err
	}

	id := uc.idGen.Generate()
	hash := domain.TransactionDigest(id, input.Date, domain.DigestLinesFromInputs(input.Entries))

	txn := &domain.Transaction{
		ID:           id,
		Number:       number,
		Date:         input.Date,
		PostingDate:  now,
		EventType:    input.EventType,
		BusinessKey:  input.BusinessKey,
		Reference:    input.Reference,
		Description:  input.Description,
		Status:       domain.StatusPosted,
		CreatedAt:    now,
		CreatedBy:    input.CreatedBy,
		SourceSystem: input.SourceSystem,
		SourceIP:     input.SourceIP,
		Hash:         hash,
	}

	if link != nil {
		txn.IsReversal = true
		txn.ReversesTransactionID = &link.reversesID
		txn.ReversalReason = link.reason
	}

	if err := uc.txnRepo.CreateTx(ctx, tx, txn); err != nil {
		return nil, err
	}

	for i, in := range input.Entries {
		account := accounts[in.AccountCode]

		entry := &domain.JournalEntry{
			ID:            uc.idGen.Generate(),
			TransactionID: txn.ID,
			LineNumber:    i + 1,
			AccountID:     account.ID,
			AccountCode:   account.Code,
			Side:          in.Side,
			Amount:        in.Amount,
			Currency:      BaseCurrency,
			CostCenter:    in.CostCenter,
			BusinessUnit:  in.BusinessUnit,
			ProjectCode:   in.ProjectCode,
			Memo:          in.Memo,
			CreatedAt:     now,
		}

		if err := uc.entryRepo.CreateTx(ctx, tx, entry); err != nil {
			return nil, err
		}

		txn.Entries = append(txn.Entries, entry)
	}

	debits, credits := domain.SumEntries(input.Entries)

	audit := &domain.AuditRecord{
		Timestamp:     now,
		TransactionID: &txn.ID,
		EventType:     domain.EventTransactionPosted,
		Severity:      domain.SeverityInfo,
		ActorID:       input.CreatedBy,
		SourceSystem:  input.SourceSystem,
		SourceIP:      input.SourceIP,
		Action:        domain.ActionPostTransaction,
		EntityType:    "transaction",
		EntityID:      txn.ID,
		Description:   fmt.Sprintf("Transaction %s posted", txn.Number),
		Metadata: domain.JSON{
			"event_type":    input.EventType,
			"total_debits":  debits.String(),
			"total_credits": credits.String(),
			"entry_count":   len(input.Entries),
		},
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	return txn, nil
}

// resolveAccounts loads every referenced account and rejects unknown or
// inactive ones before anything is inserted.
func (uc *PostingUseCase) resolveAccounts(ctx context.Context, tx Transaction, entries []domain.EntryInput) (map[string]*domain.Account, error) {
	codes := uniqueAccountCodes(entries)

	accounts, err := uc.accountRepo.GetByCodesTx(ctx, tx, codes)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}

	for _, code := range codes {
		account, ok := byCode[code]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, code)
		}

		if !account.Active {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountInactive, code)
		}
	}

	return byCode, nil
}

func uniqueAccountCodes(entries []domain.EntryInput) []string {
	seen := make(map[string]bool)

	var codes []string
	for _, e := range entries {
		if !seen[e.AccountCode] {
			seen[e.AccountCode] = true
			codes = append(codes, e.AccountCode)
		}
	}

	return codes
}

// GetTransaction retrieves a transaction with its entries.
func (uc *PostingUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	txn, err := uc.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.GetByTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	txn.Entries = entries

	return txn, nil
}
