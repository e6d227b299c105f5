package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// hashSchemeVersion is baked into the canonical form so a future scheme
// change cannot collide with digests already stored.
const hashSchemeVersion = "v1"

// DigestLine is the per-entry tuple covered by a transaction digest.
type DigestLine struct {
	AccountCode string
	Side        EntrySide
	Amount      decimal.Decimal
}

// TransactionDigest computes the SHA-256 content hash of a transaction over
// a canonical, order-preserving serialization: scheme version, transaction
// id, transaction date in ISO-8601 UTC, then each entry as
// code:side:amount. Amounts are rendered as fixed two-decimal strings so
// the same logical transaction always yields the same digest regardless of
// how it was re-parsed. The digest is computed once at posting time and
// recomputed only by explicit verification.
func TransactionDigest(transactionID string, date time.Time, lines []DigestLine) string {
	var b strings.Builder

	b.WriteString(hashSchemeVersion)
	b.WriteByte('|')
	b.WriteString(transactionID)
	b.WriteByte('|')
	b.WriteString(date.UTC().Format(time.RFC3339))

	for _, l := range lines {
		b.WriteByte('|')
		b.WriteString(l.AccountCode)
		b.WriteByte(':')
		b.WriteString(string(l.Side))
		b.WriteByte(':')
		b.WriteString(l.Amount.StringFixed(2))
	}

	sum := sha256.Sum256([]byte(b.String()))

	return hex.EncodeToString(sum[:])
}

// DigestLinesFromEntries reduces stored entries, in line order, to the
// tuples covered by the transaction digest.
func DigestLinesFromEntries(entries []*JournalEntry) []DigestLine {
	lines := make([]DigestLine, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, DigestLine{
			AccountCode: e.AccountCode,
			Side:        e.Side,
			Amount:      e.Amount,
		})
	}

	return lines
}

// DigestLinesFromInputs reduces entry inputs, in submission order, to the
// tuples covered by the transaction digest.
func DigestLinesFromInputs(entries []EntryInput) []DigestLine {
	lines := make([]DigestLine, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, DigestLine{
			AccountCode: e.AccountCode,
			Side:        e.Side,
			Amount:      e.Amount,
		})
	}

	return lines
}
