package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

// txBeginner is the slice of pgxpool.Pool the manager needs. Tests substitute
// a pgxmock pool through it.
type txBeginner interface {
	Begin(context.Context) (pgx.Tx, error)
}

// TxManager hands out database transactions to the use cases. Every posting
// unit of work runs inside one transaction so that the journal rows, the
// transaction header and the audit record land together or not at all.
type TxManager struct {
	pool txBeginner
}

// NewTxManager creates a TxManager backed by the given pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return newTxManagerWithPool(pool)
}

func newTxManagerWithPool(pool txBeginner) *TxManager {
	return &TxManager{pool: pool}
}

// Begin starts a database transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &Tx{tx: tx}, nil
}

// Tx adapts a pgx transaction to the usecase.Transaction interface.
type Tx struct {
	tx pgx.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction. After a successful commit it returns
// pgx.ErrTxClosed and changes nothing, so callers defer it unconditionally.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// PgxTx exposes the wrapped pgx.Tx to the repositories in this package.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}
