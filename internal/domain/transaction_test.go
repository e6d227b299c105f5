package domain_test

import (
	"errors"
	"testing"

	"github.com/Catson28/financial-ledger-system/internal/domain"
)

func TestEntrySide_Flip(t *testing.T) {
	if domain.SideDebit.Flip() != domain.SideCredit {
		t.Error("expected DEBIT to flip to CREDIT")
	}
	if domain.SideCredit.Flip() != domain.SideDebit {
		t.Error("expected CREDIT to flip to DEBIT")
	}
}

func TestParseEntrySide(t *testing.T) {
	tests := []struct {
		input       string
		expected    domain.EntrySide
		expectError bool
	}{
		{"DEBIT", domain.SideDebit, false},
		{"credit", domain.SideCredit, false},
		{" Debit ", domain.SideDebit, false},
		{"D", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := domain.ParseEntrySide(tt.input)
			if tt.expectError {
				if !errors.Is(err, domain.ErrInvalidEntrySide) {
					t.Errorf("expected ErrInvalidEntrySide, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestTransaction_Reversible(t *testing.T) {
	reversedBy := "txn-99"

	tests := []struct {
		name        string
		txn         domain.Transaction
		expectedErr error
	}{
		{
			name: "posted and unreversed",
			txn:  domain.Transaction{Status: domain.StatusPosted},
		},
		{
			name:        "already reversed status",
			txn:         domain.Transaction{Status: domain.StatusReversed},
			expectedErr: domain.ErrAlreadyReversed,
		},
		{
			name:        "pending",
			txn:         domain.Transaction{Status: domain.StatusPending},
			expectedErr: domain.ErrNotPosted,
		},
		{
			name:        "cancelled",
			txn:         domain.Transaction{Status: domain.StatusCancelled},
			expectedErr: domain.ErrNotPosted,
		},
		{
			name: "posted but linked to a reversal",
			txn: domain.Transaction{
				Status:                  domain.StatusPosted,
				ReversedByTransactionID: &reversedBy,
			},
			expectedErr: domain.ErrAlreadyReversed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.txn.Reversible()
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
