package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Catson28/financial-ledger-system/internal/domain"
	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

const auditColumns = `id, timestamp, transaction_id, event_type, severity, actor_id,
	source_system, source_ip, action, entity_type, entity_id, description, metadata`

// AuditRepository implements usecase.AuditRepository over an append-only
// table. Records are only ever inserted.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// CreateTx inserts an audit record inside the caller's transaction, so the
// record commits and rolls back with the operation it describes.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, record *domain.AuditRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	var metadata []byte
	if record.Metadata != nil {
		var err error

		metadata, err = json.Marshal(record.Metadata)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_records (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := pgxFrom(tx).Exec(ctx, query,
		record.ID,
		timeToPgTimestamptz(record.Timestamp),
		record.TransactionID,
		record.EventType,
		string(record.Severity),
		record.ActorID,
		record.SourceSystem,
		record.SourceIP,
		record.Action,
		record.EntityType,
		record.EntityID,
		record.Description,
		metadata,
	)

	return err
}

// List retrieves audit records with filtering, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_records WHERE 1=1`
	args := []any{}

	addArg := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if filter.EventType != "" {
		addArg(` AND event_type = $%d`, filter.EventType)
	}

	if filter.ActorID != "" {
		addArg(` AND actor_id = $%d`, filter.ActorID)
	}

	if filter.TransactionID != "" {
		addArg(` AND transaction_id = $%d`, filter.TransactionID)
	}

	if filter.Start != nil {
		addArg(` AND timestamp >= $%d`, *filter.Start)
	}

	if filter.End != nil {
		addArg(` AND timestamp <= $%d`, *filter.End)
	}

	query += ` ORDER BY timestamp DESC`

	if filter.Limit > 0 {
		addArg(` LIMIT $%d`, filter.Limit)
	}

	if filter.Offset > 0 {
		addArg(` OFFSET $%d`, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.AuditRecord

	for rows.Next() {
		var (
			record    domain.AuditRecord
			severity  string
			timestamp pgtype.Timestamptz
			metadata  []byte
		)

		err := rows.Scan(
			&record.ID,
			&timestamp,
			&record.TransactionID,
			&record.EventType,
			&severity,
			&record.ActorID,
			&record.SourceSystem,
			&record.SourceIP,
			&record.Action,
			&record.EntityType,
			&record.EntityID,
			&record.Description,
			&metadata,
		)
		if err != nil {
			return nil, err
		}

		record.Severity = domain.Severity(severity)
		record.Timestamp = timestamp.Time

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &record.Metadata); err != nil {
				return nil, err
			}
		}

		records = append(records, &record)
	}

	return records, rows.Err()
}
