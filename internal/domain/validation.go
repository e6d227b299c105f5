package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinEntriesPerTransaction is the smallest legal transaction: one debit and
// one credit.
const MinEntriesPerTransaction = 2

// SumEntries returns the total debits and total credits of an entry set in
// exact decimal arithmetic.
func SumEntries(entries []EntryInput) (debits, credits decimal.Decimal) {
	for _, e := range entries {
		if e.Side == SideDebit {
			debits = debits.Add(e.Amount)
		} else {
			credits = credits.Add(e.Amount)
		}
	}

	return debits, credits
}

// ValidateEntries enforces double-entry well-formedness before anything is
// persisted: at least two entries, every amount strictly positive, every
// side recognizable, and debits exactly equal to credits. Account existence
// and active checks are the directory's job and happen inside the posting
// transaction. This function has no side effects and does no I/O.
func ValidateEntries(entries []EntryInput) error {
	if len(entries) < MinEntriesPerTransaction {
		return fmt.Errorf("%w: got %d", ErrTooFewEntries, len(entries))
	}

	for i, e := range entries {
		if e.Side != SideDebit && e.Side != SideCredit {
			return fmt.Errorf("%w: line %d has side %q", ErrInvalidEntrySide, i+1, e.Side)
		}

		if e.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: line %d (%s) has amount %s", ErrNonPositiveAmount, i+1, e.AccountCode, e.Amount)
		}
	}

	debits, credits := SumEntries(entries)
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits %s, credits %s", ErrUnbalanced, debits, credits)
	}

	return nil
}
