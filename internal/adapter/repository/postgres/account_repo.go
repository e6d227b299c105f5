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

const accountColumns = `id, code, name, type, parent_id, level, active, description, created_at, created_by`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// CreateTx inserts a new account inside the caller's transaction.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := pgxFrom(tx).Exec(ctx, query,
		account.ID,
		account.Code,
		account.Name,
		string(account.Type),
		account.ParentID,
		account.Level,
		account.Active,
		account.Description,
		timeToPgTimestamptz(account.CreatedAt),
		account.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "accounts_code_key") {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateAccountCode, account.Code)
		}

		return err
	}

	return nil
}

// GetByCode retrieves an account by code.
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1`

	return scanAccount(r.pool.QueryRow(ctx, query, code))
}

// GetByCodeTx retrieves an account by code inside the caller's transaction.
func (r *AccountRepository) GetByCodeTx(ctx context.Context, tx usecase.Transaction, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1`

	return scanAccount(pgxFrom(tx).QueryRow(ctx, query, code))
}

// GetByCodesTx retrieves accounts by code inside the caller's transaction.
// Missing codes are simply absent from the result.
func (r *AccountRepository) GetByCodesTx(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = ANY($1) ORDER BY code`

	rows, err := pgxFrom(tx).Query(ctx, query, codes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAccounts(rows)
}

// SetActiveTx flips the active flag inside the caller's transaction.
func (r *AccountRepository) SetActiveTx(ctx context.Context, tx usecase.Transaction, code string, active bool) error {
	tag, err := pgxFrom(tx).Exec(ctx, `UPDATE accounts SET active = $2 WHERE code = $1`, code, active)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List retrieves accounts ordered by code with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY code LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account     domain.Account
		accountType string
		createdAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.Code,
		&account.Name,
		&accountType,
		&account.ParentID,
		&account.Level,
		&account.Active,
		&account.Description,
		&createdAt,
		&account.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.Type = domain.AccountType(accountType)
	account.CreatedAt = createdAt.Time

	return &account, nil
}

func collectAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}
