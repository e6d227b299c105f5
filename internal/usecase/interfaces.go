package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Catson28/financial-ledger-system/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	GetByCodeTx(ctx context.Context, tx Transaction, code string) (*domain.Account, error)
	GetByCodesTx(ctx context.Context, tx Transaction, codes []string) ([]*domain.Account, error)
	SetActiveTx(ctx context.Context, tx Transaction, code string, active bool) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for transaction headers.
// Posted headers are immutable; MarkReversedTx performs the single legal
// post-creation mutation (status and reversed-by link).
type TransactionRepository interface {
	CreateTx(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	MarkReversedTx(ctx context.Context, tx Transaction, id, reversedByID string) error
	ListPosted(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
}

// EntryRepository defines data access for journal entries. Entries have no
// update or delete path anywhere in the system.
type EntryRepository interface {
	CreateTx(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	GetByTransaction(ctx context.Context, transactionID string) ([]*domain.JournalEntry, error)
	ListByAccount(ctx context.Context, accountCode string, limit, offset int) ([]*domain.JournalEntry, error)
	// SumByAccount returns total debits and credits over entries of POSTED
	// transactions, optionally bounded by posting date.
	SumByAccount(ctx context.Context, accountCode string, asOf *time.Time) (debits, credits decimal.Decimal, err error)
	// SumByAccountBetween returns totals over a posting-date window.
	SumByAccountBetween(ctx context.Context, accountCode string, from, to time.Time) (debits, credits decimal.Decimal, err error)
}

// AuditRepository defines data access for the append-only audit trail.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, record *domain.AuditRecord) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, error)
}

// PeriodRepository defines data access for closing period snapshots.
type PeriodRepository interface {
	Create(ctx context.Context, period *domain.ClosingPeriod) error
	List(ctx context.Context, limit, offset int) ([]*domain.ClosingPeriod, error)
}

// NumberAllocator issues human-readable transaction numbers. Allocation
// runs inside the caller's database transaction so a rolled-back post
// never burns a visible gap, but the count-then-increment scheme is only
// safe under a single writer; the uniqueness constraint on the number
// column backstops concurrent callers.
type NumberAllocator interface {
	Next(ctx context.Context, tx Transaction, date time.Time) (string, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request may be retried.
	Release(ctx context.Context, key string) error
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
