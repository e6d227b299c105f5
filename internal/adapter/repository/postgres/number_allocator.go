package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

// NumberAllocator issues sequential transaction numbers of the form
// YYYYMMDD-NNNNNN, scoped per transaction date. It counts existing numbers
// for the day inside the caller's database transaction; under concurrent
// writers two posts can draw the same number, which the unique constraint
// on transactions.number then rejects, failing one of the posts cleanly.
type NumberAllocator struct{}

// NewNumberAllocator creates a new NumberAllocator.
func NewNumberAllocator() *NumberAllocator {
	return &NumberAllocator{}
}

// Next returns the next free number for the date.
func (a *NumberAllocator) Next(ctx context.Context, tx usecase.Transaction, date time.Time) (string, error) {
	prefix := date.UTC().Format("20060102")

	var count int
	err := pgxFrom(tx).QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE number LIKE $1`,
		prefix+"-%",
	).Scan(&count)
	if err != nil {
		return "", err
	}

	return FormatNumber(prefix, count+1), nil
}

// FormatNumber renders a transaction number from its date prefix and
// per-day sequence.
func FormatNumber(prefix string, sequence int) string {
	return fmt.Sprintf("%s-%06d", prefix, sequence)
}
