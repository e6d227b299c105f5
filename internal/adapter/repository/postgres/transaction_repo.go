package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Catson28/financial-ledger-system/internal/domain"
	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

const transactionColumns = `id, number, date, posting_date, event_type, business_key, reference,
	description, status, is_reversal, reverses_transaction_id, reversed_by_transaction_id,
	reversal_reason, created_at, created_by, source_system, source_ip, hash`

// TransactionRepository implements usecase.TransactionRepository. Posted
// headers are immutable; the only update this repository exposes is the
// reversed-by link.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// CreateTx inserts a transaction header inside the caller's transaction.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := pgxFrom(tx).Exec(ctx, query,
		txn.ID,
		txn.Number,
		timeToPgTimestamptz(txn.Date),
		timeToPgTimestamptz(txn.PostingDate),
		txn.EventType,
		txn.BusinessKey,
		txn.Reference,
		txn.Description,
		string(txn.Status),
		txn.IsReversal,
		txn.ReversesTransactionID,
		txn.ReversedByTransactionID,
		txn.ReversalReason,
		timeToPgTimestamptz(txn.CreatedAt),
		txn.CreatedBy,
		txn.SourceSystem,
		txn.SourceIP,
		txn.Hash,
	)
	if err != nil {
		if isUniqueViolation(err, "transactions_number_key") {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateTransactionNumber, txn.Number)
		}

		return err
	}

	return nil
}

// GetByID retrieves a transaction header by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a transaction header with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`

	return scanTransaction(pgxFrom(tx).QueryRow(ctx, query, id))
}

// MarkReversedTx flips a posted header to REVERSED and records which
// transaction neutralized it. The WHERE clause re-checks status so a
// concurrent reversal cannot double-apply.
func (r *TransactionRepository) MarkReversedTx(ctx context.Context, tx usecase.Transaction, id, reversedByID string) error {
	query := `
		UPDATE transactions
		SET status = $3, reversed_by_transaction_id = $2
		WHERE id = $1 AND status = $4 AND reversed_by_transaction_id IS NULL
	`

	tag, err := pgxFrom(tx).Exec(ctx, query, id, reversedByID, string(domain.StatusReversed), string(domain.StatusPosted))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyReversed
	}

	return nil
}

// ListPosted retrieves transactions that went through posting, ordered by
// number with pagination. REVERSED headers are included: they were posted
// and their stored entries still participate in balances.
func (r *TransactionRepository) ListPosted(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE status IN ($1, $2) ORDER BY number LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, string(domain.StatusPosted), string(domain.StatusReversed), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction

	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn         domain.Transaction
		status      string
		date        pgtype.Timestamptz
		postingDate pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.Number,
		&date,
		&postingDate,
		&txn.EventType,
		&txn.BusinessKey,
		&txn.Reference,
		&txn.Description,
		&status,
		&txn.IsReversal,
		&txn.ReversesTransactionID,
		&txn.ReversedByTransactionID,
		&txn.ReversalReason,
		&createdAt,
		&txn.CreatedBy,
		&txn.SourceSystem,
		&txn.SourceIP,
		&txn.Hash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn.Status = domain.TransactionStatus(status)
	txn.Date = date.Time
	txn.PostingDate = postingDate.Time
	txn.CreatedAt = createdAt.Time

	return &txn, nil
}
