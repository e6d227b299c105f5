package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Catson28/financial-ledger-system/internal/domain"
)

const periodColumns = `id, type, period_start, period_end, total_debits, total_credits,
	balance_check, closed, closed_at, closed_by, created_at`

// PeriodRepository implements usecase.PeriodRepository.
type PeriodRepository struct {
	pool *pgxpool.Pool
}

// NewPeriodRepository creates a new PeriodRepository.
func NewPeriodRepository(pool *pgxpool.Pool) *PeriodRepository {
	return &PeriodRepository{pool: pool}
}

// Create inserts a closing period snapshot.
func (r *PeriodRepository) Create(ctx context.Context, period *domain.ClosingPeriod) error {
	query := `
		INSERT INTO closing_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		period.ID,
		string(period.Type),
		timeToPgTimestamptz(period.PeriodStart),
		timeToPgTimestamptz(period.PeriodEnd),
		decimalToNumeric(period.TotalDebits),
		decimalToNumeric(period.TotalCredits),
		period.BalanceCheck,
		period.Closed,
		ptrToPgTimestamptz(period.ClosedAt),
		period.ClosedBy,
		timeToPgTimestamptz(period.CreatedAt),
	)

	return err
}

// List retrieves closing periods, newest first.
func (r *PeriodRepository) List(ctx context.Context, limit, offset int) ([]*domain.ClosingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM closing_periods ORDER BY period_end DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []*domain.ClosingPeriod

	for rows.Next() {
		var (
			period       domain.ClosingPeriod
			periodType   string
			start        pgtype.Timestamptz
			end          pgtype.Timestamptz
			totalDebits  pgtype.Numeric
			totalCredits pgtype.Numeric
			closedAt     pgtype.Timestamptz
			createdAt    pgtype.Timestamptz
		)

		err := rows.Scan(
			&period.ID,
			&periodType,
			&start,
			&end,
			&totalDebits,
			&totalCredits,
			&period.BalanceCheck,
			&period.Closed,
			&closedAt,
			&period.ClosedBy,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		period.Type = domain.PeriodType(periodType)
		period.PeriodStart = start.Time
		period.PeriodEnd = end.Time
		period.TotalDebits = numericToDecimal(totalDebits)
		period.TotalCredits = numericToDecimal(totalCredits)
		period.CreatedAt = createdAt.Time

		if closedAt.Valid {
			t := closedAt.Time
			period.ClosedAt = &t
		}

		periods = append(periods, &period)
	}

	return periods, rows.Err()
}
