package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Catson28/financial-ledger-system/internal/domain"
	"github.com/Catson28/financial-ledger-system/internal/infrastructure/metrics"
)

func sumStoredEntries(entries []*domain.JournalEntry) (debits, credits decimal.Decimal) {
	for _, e := range entries {
		if e.Side == domain.SideDebit {
			debits = debits.Add(e.Amount)
		} else {
			credits = credits.Add(e.Amount)
		}
	}

	return debits, credits
}

// VerifyUseCase exposes read-only integrity checks over the stored ledger.
// It never rewrites a hash or force-balances a transaction: a detected
// violation is reported and left intact for forensic record; correction is
// always a new adjusting or reversal transaction.
type VerifyUseCase struct {
	txnRepo   TransactionRepository
	entryRepo EntryRepository
	txManager TransactionManager
	auditRepo AuditRepository
	metrics   *metrics.Metrics
}

// NewVerifyUseCase creates a new VerifyUseCase.
func NewVerifyUseCase(txnRepo TransactionRepository, entryRepo EntryRepository) *VerifyUseCase {
	return &VerifyUseCase{
		txnRepo:   txnRepo,
		entryRepo: entryRepo,
	}
}

// WithMetrics enables Prometheus instrumentation of integrity checks.
func (uc *VerifyUseCase) WithMetrics(m *metrics.Metrics) *VerifyUseCase {
	uc.metrics = m
	return uc
}

// WithAuditTrail makes every detected violation leave a CRITICAL record in
// the audit trail. Verification never repairs the ledger, so the record is
// the durable trace of the finding.
func (uc *VerifyUseCase) WithAuditTrail(txManager TransactionManager, auditRepo AuditRepository) *VerifyUseCase {
	uc.txManager = txManager
	uc.auditRepo = auditRepo
	return uc
}

func (uc *VerifyUseCase) recordViolation(ctx context.Context, violation error, transactionID string, metadata domain.JSON) error {
	if uc.txManager == nil || uc.auditRepo == nil {
		return nil
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	record := &domain.AuditRecord{
		Timestamp:     time.Now().UTC(),
		TransactionID: &transactionID,
		EventType:     domain.EventIntegrityViolation,
		Severity:      domain.SeverityCritical,
		SourceSystem:  DefaultSourceSystem,
		Action:        domain.ActionVerifyLedger,
		EntityType:    "transaction",
		EntityID:      transactionID,
		Description:   violation.Error(),
		Metadata:      metadata,
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, record); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// VerificationResult reports whether one posted transaction's entries
// still balance.
type VerificationResult struct {
	TransactionID string `json:"transaction_id"`
	Number        string `json:"number"`
	Balanced      bool   `json:"balanced"`
}

// VerifyIntegrity scans every posted transaction and re-checks the
// double-entry invariant against stored entries.
func (uc *VerifyUseCase) VerifyIntegrity(ctx context.Context) ([]VerificationResult, error) {
	var results []VerificationResult

	for offset := 0; ; offset += verifyPageSize {
		page, err := uc.txnRepo.ListPosted(ctx, verifyPageSize, offset)
		if err != nil {
			return nil, err
		}

		if len(page) == 0 {
			break
		}

		for _, txn := range page {
			entries, err := uc.entryRepo.GetByTransaction(ctx, txn.ID)
			if err != nil {
				return nil, err
			}

			debits, credits := sumStoredEntries(entries)
			balanced := debits.Equal(credits)
			if !balanced {
				if uc.metrics != nil {
					uc.metrics.IntegrityViolations.Inc()
				}

				violation := fmt.Errorf("%w: transaction %s", domain.ErrLedgerImbalance, txn.Number)
				if err := uc.recordViolation(ctx, violation, txn.ID, domain.JSON{
					"total_debits":  debits.String(),
					"total_credits": credits.String(),
				}); err != nil {
					return nil, err
				}
			}

			results = append(results, VerificationResult{
				TransactionID: txn.ID,
				Number:        txn.Number,
				Balanced:      balanced,
			})
		}

		if len(page) < verifyPageSize {
			break
		}
	}

	if uc.metrics != nil {
		uc.metrics.IntegrityChecks.Inc()
	}

	return results, nil
}

// HashCheck is the outcome of recomputing one transaction's content hash.
type HashCheck struct {
	TransactionID string `json:"transaction_id"`
	Stored        string `json:"stored"`
	Recalculated  string `json:"recalculated"`
	Match         bool   `json:"match"`
}

// VerifyHash recomputes the content hash of a stored transaction from its
// persisted id, date and entries, and compares it byte-for-byte with the
// hash stored at posting time.
func (uc *VerifyUseCase) VerifyHash(ctx context.Context, transactionID string) (*HashCheck, error) {
	txn, err := uc.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.GetByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	recalculated := domain.TransactionDigest(txn.ID, txn.Date, domain.DigestLinesFromEntries(entries))
	match := txn.Hash == recalculated
	if !match {
		if uc.metrics != nil {
			uc.metrics.HashMismatches.Inc()
		}

		violation := fmt.Errorf("%w: transaction %s", domain.ErrHashMismatch, txn.ID)
		if err := uc.recordViolation(ctx, violation, txn.ID, domain.JSON{
			"stored":       txn.Hash,
			"recalculated": recalculated,
		}); err != nil {
			return nil, err
		}
	}

	return &HashCheck{
		TransactionID: txn.ID,
		Stored:        txn.Hash,
		Recalculated:  recalculated,
		Match:         match,
	}, nil
}
