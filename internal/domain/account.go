package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account in double-entry accounting. The set is
// closed: balance polarity must stay exhaustively checkable.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// ParseAccountType parses a string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(strings.ToUpper(strings.TrimSpace(s))) {
	case AccountTypeAsset:
		return AccountTypeAsset, nil
	case AccountTypeLiability:
		return AccountTypeLiability, nil
	case AccountTypeEquity:
		return AccountTypeEquity, nil
	case AccountTypeRevenue:
		return AccountTypeRevenue, nil
	case AccountTypeExpense:
		return AccountTypeExpense, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
}

// DebitNormal reports whether debits increase the balance for this account
// type.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Balance applies the account-type polarity rule to raw debit and credit
// totals. Assets and expenses carry debits minus credits; liabilities,
// equity and revenue carry credits minus debits. Getting this sign wrong
// silently corrupts every derived report, so it lives in exactly one place.
func (t AccountType) Balance(debits, credits decimal.Decimal) decimal.Decimal {
	if t.DebitNormal() {
		return debits.Sub(credits)
	}

	return credits.Sub(debits)
}

// Account is a node in the chart of accounts. Code, type and hierarchy
// position are immutable after creation; the only legal update is the
// active flag.
type Account struct {
	CreatedAt   time.Time
	ParentID    *string
	ID          string
	Code        string
	Name        string
	Type        AccountType
	Description string
	CreatedBy   string
	Level       int
	Active      bool
}

// AccountDefinition is the caller-supplied shape of a new account.
type AccountDefinition struct {
	Code        string
	Name        string
	Type        AccountType
	ParentCode  string
	Description string
}

const (
	MaxAccountCodeLength = 50
	MaxAccountNameLength = 200
)

// Validate checks the definition for well-formedness. Code uniqueness and
// parent existence are checked against the directory at creation time.
func (d AccountDefinition) Validate() error {
	code := strings.TrimSpace(d.Code)
	if code == "" {
		return fmt.Errorf("%w: code cannot be empty", ErrInvalidAccountCode)
	}

	if len(code) > MaxAccountCodeLength {
		return fmt.Errorf("%w: code exceeds %d characters", ErrInvalidAccountCode, MaxAccountCodeLength)
	}

	name := strings.TrimSpace(d.Name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	if _, err := ParseAccountType(string(d.Type)); err != nil {
		return err
	}

	return nil
}
