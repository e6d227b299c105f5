package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a single debit or credit line owned by its transaction.
// Entries are written together with their header in one atomic unit and are
// never updated or deleted afterwards. The account code is denormalized so
// the audit trail stays readable even if account metadata changes.
type JournalEntry struct {
	CreatedAt     time.Time
	ID            string
	TransactionID string
	AccountID     string
	AccountCode   string
	Side          EntrySide
	Amount        decimal.Decimal
	Currency      string
	CostCenter    string
	BusinessUnit  string
	ProjectCode   string
	Memo          string
	LineNumber    int
}
