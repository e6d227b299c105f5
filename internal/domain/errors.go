package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrDuplicateAccountCode = errors.New("account code already exists")
	ErrInvalidAccountCode   = errors.New("invalid account code")
	ErrInvalidAccountName   = errors.New("invalid account name")
	ErrInvalidAccountType   = errors.New("invalid account type")

	// Validation errors (detected before any write)
	ErrMissingDate       = errors.New("transaction date is required")
	ErrTooFewEntries     = errors.New("transaction requires at least two entries")
	ErrNonPositiveAmount = errors.New("entry amount must be positive")
	ErrUnbalanced        = errors.New("debits do not equal credits")
	ErrInvalidEntrySide  = errors.New("invalid entry side")

	// Transaction errors
	ErrTransactionNotFound        = errors.New("transaction not found")
	ErrDuplicateTransactionNumber = errors.New("transaction number already exists")
	ErrNotPosted                  = errors.New("transaction is not posted")
	ErrAlreadyReversed            = errors.New("transaction already reversed")

	// Integrity errors, raised only by explicit verification and never
	// auto-remediated.
	ErrHashMismatch    = errors.New("stored hash does not match recalculated hash")
	ErrLedgerImbalance = errors.New("posted transaction is not balanced")
)
