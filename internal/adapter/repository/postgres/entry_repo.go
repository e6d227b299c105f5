package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Catson28/financial-ledger-system/internal/domain"
	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

const entryColumns = `id, transaction_id, line_number, account_id, account_code, side, amount,
	currency, cost_center, business_unit, project_code, memo, created_at`

// EntryRepository implements usecase.EntryRepository. Entries are insert
// only; there is no update or delete path.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// CreateTx inserts a journal entry inside the caller's transaction.
func (r *EntryRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := pgxFrom(tx).Exec(ctx, query,
		entry.ID,
		entry.TransactionID,
		entry.LineNumber,
		entry.AccountID,
		entry.AccountCode,
		string(entry.Side),
		decimalToNumeric(entry.Amount),
		entry.Currency,
		entry.CostCenter,
		entry.BusinessUnit,
		entry.ProjectCode,
		entry.Memo,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// GetByTransaction retrieves a transaction's entries in line order.
func (r *EntryRepository) GetByTransaction(ctx context.Context, transactionID string) ([]*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE transaction_id = $1 ORDER BY line_number`

	rows, err := r.pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListByAccount retrieves an account's entries in posting order with
// pagination.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountCode string, limit, offset int) ([]*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE account_code = $1
		ORDER BY created_at, line_number
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountCode, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// SumByAccount totals debits and credits over entries whose transaction
// went through posting, optionally bounded by posting date. Entries of
// REVERSED transactions stay in the sums; their reversals cancel them.
func (r *EntryRepository) SumByAccount(ctx context.Context, accountCode string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(e.amount) FILTER (WHERE e.side = 'DEBIT'), 0),
			COALESCE(SUM(e.amount) FILTER (WHERE e.side = 'CREDIT'), 0)
		FROM journal_entries e
		JOIN transactions t ON t.id = e.transaction_id
		WHERE e.account_code = $1
		  AND t.status IN ($2, $3)
		  AND ($4::timestamptz IS NULL OR t.posting_date <= $4)
	`

	return r.sumQuery(ctx, query, accountCode, string(domain.StatusPosted), string(domain.StatusReversed), ptrToPgTimestamptz(asOf))
}

// SumByAccountBetween totals debits and credits over a posting-date window.
func (r *EntryRepository) SumByAccountBetween(ctx context.Context, accountCode string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(e.amount) FILTER (WHERE e.side = 'DEBIT'), 0),
			COALESCE(SUM(e.amount) FILTER (WHERE e.side = 'CREDIT'), 0)
		FROM journal_entries e
		JOIN transactions t ON t.id = e.transaction_id
		WHERE e.account_code = $1
		  AND t.status IN ($2, $3)
		  AND t.posting_date >= $4
		  AND t.posting_date <= $5
	`

	return r.sumQuery(ctx, query, accountCode, string(domain.StatusPosted), string(domain.StatusReversed), timeToPgTimestamptz(from), timeToPgTimestamptz(to))
}

func (r *EntryRepository) sumQuery(ctx context.Context, query string, args ...any) (decimal.Decimal, decimal.Decimal, error) {
	var debits, credits pgtype.Numeric

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(debits), numericToDecimal(credits), nil
}

func collectEntries(rows pgx.Rows) ([]*domain.JournalEntry, error) {
	var entries []*domain.JournalEntry

	for rows.Next() {
		var (
			entry     domain.JournalEntry
			side      string
			amount    pgtype.Numeric
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(
			&entry.ID,
			&entry.TransactionID,
			&entry.LineNumber,
			&entry.AccountID,
			&entry.AccountCode,
			&side,
			&amount,
			&entry.Currency,
			&entry.CostCenter,
			&entry.BusinessUnit,
			&entry.ProjectCode,
			&entry.Memo,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		entry.Side = domain.EntrySide(side)
		entry.Amount = numericToDecimal(amount)
		entry.CreatedAt = createdAt.Time

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
