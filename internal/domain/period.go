package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType scopes a closing period.
type PeriodType string

const (
	PeriodDaily     PeriodType = "DAILY"
	PeriodMonthly   PeriodType = "MONTHLY"
	PeriodQuarterly PeriodType = "QUARTERLY"
	PeriodAnnual    PeriodType = "ANNUAL"
)

// ClosingPeriod is held as data only. Opening and closing periods is the
// responsibility of a surrounding system; the posting engine neither reads
// nor enforces period state.
type ClosingPeriod struct {
	PeriodStart  time.Time
	PeriodEnd    time.Time
	CreatedAt    time.Time
	ClosedAt     *time.Time
	ID           string
	Type         PeriodType
	ClosedBy     string
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	BalanceCheck bool
	Closed       bool
}
