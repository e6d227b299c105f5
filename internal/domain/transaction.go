package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a transaction. The posting
// pipeline creates transactions directly in POSTED; the only transition out
// of POSTED is to REVERSED. PENDING and CANCELLED are reserved for future
// extensions and are never produced here.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusPosted    TransactionStatus = "POSTED"
	StatusReversed  TransactionStatus = "REVERSED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

// EntrySide marks a journal entry as a debit or a credit.
type EntrySide string

const (
	SideDebit  EntrySide = "DEBIT"
	SideCredit EntrySide = "CREDIT"
)

// ParseEntrySide parses a string into an EntrySide.
func ParseEntrySide(s string) (EntrySide, error) {
	switch EntrySide(strings.ToUpper(strings.TrimSpace(s))) {
	case SideDebit:
		return SideDebit, nil
	case SideCredit:
		return SideCredit, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidEntrySide, s)
}

// Flip returns the opposite side. Reversal entries are built by flipping
// every original entry while preserving account, amount and dimensions.
func (s EntrySide) Flip() EntrySide {
	if s == SideDebit {
		return SideCredit
	}

	return SideDebit
}

// Transaction is an immutable ledger transaction header. Once POSTED, every
// field except the reversal linkage is permanently frozen; the storage layer
// enforces the same rule independently.
type Transaction struct {
	Date                    time.Time
	PostingDate             time.Time
	CreatedAt               time.Time
	ReversesTransactionID   *string
	ReversedByTransactionID *string
	ID                      string
	Number                  string
	EventType               string
	BusinessKey             string
	Reference               string
	Description             string
	Status                  TransactionStatus
	ReversalReason          string
	CreatedBy               string
	SourceSystem            string
	SourceIP                string
	Hash                    string
	Entries                 []*JournalEntry
	IsReversal              bool
}

// Reversible reports whether the transaction can still be reversed.
func (t *Transaction) Reversible() error {
	if t.Status != StatusPosted {
		if t.Status == StatusReversed {
			return ErrAlreadyReversed
		}

		return fmt.Errorf("%w: status is %s", ErrNotPosted, t.Status)
	}

	if t.ReversedByTransactionID != nil {
		return ErrAlreadyReversed
	}

	return nil
}

// EntryInput is the caller-supplied shape of a journal entry line.
type EntryInput struct {
	AccountCode  string
	Side         EntrySide
	Amount       decimal.Decimal
	CostCenter   string
	BusinessUnit string
	ProjectCode  string
	Memo         string
}
