package domain

import (
	"encoding/json"
	"time"
)

// AuditRecord is an append-only fact describing one action taken against
// the ledger. It is written in the same atomic unit as the action it
// documents: a commit without its audit record cannot occur, and a rollback
// discards both together.
type AuditRecord struct {
	Timestamp     time.Time
	TransactionID *string
	ID            string
	EventType     string
	Severity      Severity
	ActorID       string
	SourceSystem  string
	SourceIP      string
	Action        string
	EntityType    string
	EntityID      string
	Description   string
	Metadata      JSON
}

// JSON is a type alias for structured audit metadata.
type JSON map[string]any

// Severity grades audit events. Reversals are always logged at WARNING;
// integrity violations at CRITICAL.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// Audit event types.
const (
	EventAccountCreated      = "ACCOUNT_CREATED"
	EventAccountDeactivated  = "ACCOUNT_DEACTIVATED"
	EventTransactionPosted   = "TRANSACTION_POSTED"
	EventTransactionReversed = "TRANSACTION_REVERSED"
	EventIntegrityViolation  = "INTEGRITY_VIOLATION"
)

// Audit action verbs.
const (
	ActionCreateAccount      = "CREATE_ACCOUNT"
	ActionDeactivateAccount  = "DEACTIVATE_ACCOUNT"
	ActionPostTransaction    = "POST_TRANSACTION"
	ActionReverseTransaction = "REVERSE_TRANSACTION"
	ActionVerifyLedger       = "VERIFY_LEDGER"
)

// MarshalState converts a domain object to JSON metadata for audit logging.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit records.
type AuditFilter struct {
	Start         *time.Time
	End           *time.Time
	EventType     string
	ActorID       string
	TransactionID string
	Limit         int
	Offset        int
}
