package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		prefix   string
		sequence int
		want     string
	}{
		{"20250315", 1, "20250315-000001"},
		{"20250315", 42, "20250315-000042"},
		{"20251231", 999999, "20251231-999999"},
		{"20251231", 1000000, "20251231-1000000"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.prefix, tt.sequence); got != tt.want {
			t.Errorf("FormatNumber(%s, %d) = %s, want %s", tt.prefix, tt.sequence, got, tt.want)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "transactions_number_key"}

	if !isUniqueViolation(err, "transactions_number_key") {
		t.Error("expected match on named constraint")
	}
	if !isUniqueViolation(err, "") {
		t.Error("expected match on any constraint")
	}
	if isUniqueViolation(err, "accounts_code_key") {
		t.Error("expected mismatch on other constraint")
	}
	if isUniqueViolation(&pgconn.PgError{Code: pgErrDeadlock}, "") {
		t.Error("expected non-unique-violation code to mismatch")
	}
}

func TestDecimalNumericRoundTrip(t *testing.T) {
	for _, raw := range []string{"0", "100", "100.25", "-42.10", "0.01", "999999999.99"} {
		d := decimal.RequireFromString(raw)

		got := numericToDecimal(decimalToNumeric(d))
		if !got.Equal(d) {
			t.Errorf("round trip of %s produced %s", raw, got)
		}
	}
}
