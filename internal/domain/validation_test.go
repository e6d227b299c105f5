package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Catson28/financial-ledger-system/internal/domain"
)

func entry(code string, side domain.EntrySide, amount string) domain.EntryInput {
	return domain.EntryInput{
		AccountCode: code,
		Side:        side,
		Amount:      decimal.RequireFromString(amount),
	}
}

func TestValidateEntries(t *testing.T) {
	tests := []struct {
		name        string
		entries     []domain.EntryInput
		expectedErr error
	}{
		{
			name: "balanced pair",
			entries: []domain.EntryInput{
				entry("1100", domain.SideDebit, "1000.00"),
				entry("4100", domain.SideCredit, "1000.00"),
			},
		},
		{
			name: "split credit",
			entries: []domain.EntryInput{
				entry("1100", domain.SideDebit, "150.00"),
				entry("4100", domain.SideCredit, "100.00"),
				entry("2100", domain.SideCredit, "50.00"),
			},
		},
		{
			name:        "no entries",
			entries:     nil,
			expectedErr: domain.ErrTooFewEntries,
		},
		{
			name: "single entry",
			entries: []domain.EntryInput{
				entry("1100", domain.SideDebit, "100.00"),
			},
			expectedErr: domain.ErrTooFewEntries,
		},
		{
			name: "zero amount",
			entries: []domain.EntryInput{
				entry("1100", domain.SideDebit, "0"),
				entry("4100", domain.SideCredit, "0"),
			},
			expectedErr: domain.ErrNonPositiveAmount,
		},
		{
			name: "negative amount",
			entries: []domain.EntryInput{
				entry("1100", domain.SideDebit, "-50.00"),
				entry("4100", domain.SideCredit, "-50.00"),
			},
			expectedErr: domain.ErrNonPositiveAmount,
		},
		{
			name: "unbalanced",
			entries: []domain.EntryInput{
				entry("1100", domain.SideDebit, "600.00"),
				entry("4100", domain.SideCredit, "500.00"),
			},
			expectedErr: domain.ErrUnbalanced,
		},
		{
			name: "unknown side",
			entries: []domain.EntryInput{
				entry("1100", "DEBET", "100.00"),
				entry("4100", domain.SideCredit, "100.00"),
			},
			expectedErr: domain.ErrInvalidEntrySide,
		},
		{
			// Exact decimal arithmetic: values that drift under binary
			// floating point must still balance.
			name: "decimal cents balance exactly",
			entries: []domain.EntryInput{
				entry("1100", domain.SideDebit, "0.10"),
				entry("1100", domain.SideDebit, "0.20"),
				entry("4100", domain.SideCredit, "0.30"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateEntries(tt.entries)
			if tt.expectedErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("expected %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestSumEntries(t *testing.T) {
	entries := []domain.EntryInput{
		entry("1100", domain.SideDebit, "600.00"),
		entry("1200", domain.SideDebit, "400.00"),
		entry("4100", domain.SideCredit, "1000.00"),
	}

	debits, credits := domain.SumEntries(entries)

	if debits.String() != "1000" {
		t.Errorf("expected debits 1000, got %s", debits)
	}
	if credits.String() != "1000" {
		t.Errorf("expected credits 1000, got %s", credits)
	}
}
