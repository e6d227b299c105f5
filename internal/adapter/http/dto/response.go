package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Catson28/financial-ledger-system/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	ParentID    *string   `json:"parent_id,omitempty"`
	Level       int       `json:"level"`
	Active      bool      `json:"active"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		Code:        a.Code,
		Name:        a.Name,
		Type:        string(a.Type),
		ParentID:    a.ParentID,
		Level:       a.Level,
		Active:      a.Active,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		CreatedBy:   a.CreatedBy,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps an account listing.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EntryResponse represents a journal entry in API responses.
type EntryResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	LineNumber    int             `json:"line_number"`
	AccountCode   string          `json:"account_code"`
	Side          string          `json:"side"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CostCenter    string          `json:"cost_center,omitempty"`
	BusinessUnit  string          `json:"business_unit,omitempty"`
	ProjectCode   string          `json:"project_code,omitempty"`
	Memo          string          `json:"memo,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain journal entry to a response.
func EntryFromDomain(e *domain.JournalEntry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		LineNumber:    e.LineNumber,
		AccountCode:   e.AccountCode,
		Side:          string(e.Side),
		Amount:        e.Amount,
		Currency:      e.Currency,
		CostCenter:    e.CostCenter,
		BusinessUnit:  e.BusinessUnit,
		ProjectCode:   e.ProjectCode,
		Memo:          e.Memo,
		CreatedAt:     e.CreatedAt,
	}
}

// EntriesFromDomain converts domain journal entries to responses.
func EntriesFromDomain(entries []*domain.JournalEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID                      string           `json:"id"`
	Number                  string           `json:"number"`
	Date                    time.Time        `json:"date"`
	PostingDate             time.Time        `json:"posting_date"`
	EventType               string           `json:"event_type"`
	BusinessKey             string           `json:"business_key,omitempty"`
	Reference               string           `json:"reference,omitempty"`
	Description             string           `json:"description,omitempty"`
	Status                  string           `json:"status"`
	IsReversal              bool             `json:"is_reversal"`
	ReversesTransactionID   *string          `json:"reverses_transaction_id,omitempty"`
	ReversedByTransactionID *string          `json:"reversed_by_transaction_id,omitempty"`
	ReversalReason          string           `json:"reversal_reason,omitempty"`
	CreatedAt               time.Time        `json:"created_at"`
	CreatedBy               string           `json:"created_by,omitempty"`
	Hash                    string           `json:"hash"`
	Entries                 []*EntryResponse `json:"entries,omitempty"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:                      t.ID,
		Number:                  t.Number,
		Date:                    t.Date,
		PostingDate:             t.PostingDate,
		EventType:               t.EventType,
		BusinessKey:             t.BusinessKey,
		Reference:               t.Reference,
		Description:             t.Description,
		Status:                  string(t.Status),
		IsReversal:              t.IsReversal,
		ReversesTransactionID:   t.ReversesTransactionID,
		ReversedByTransactionID: t.ReversedByTransactionID,
		ReversalReason:          t.ReversalReason,
		CreatedAt:               t.CreatedAt,
		CreatedBy:               t.CreatedBy,
		Hash:                    t.Hash,
	}

	if len(t.Entries) > 0 {
		resp.Entries = EntriesFromDomain(t.Entries)
	}

	return resp
}

// BalanceResponse represents an account balance in API responses.
type BalanceResponse struct {
	AccountCode string          `json:"account_code"`
	Balance     decimal.Decimal `json:"balance"`
	AsOf        *time.Time      `json:"as_of,omitempty"`
}

// PeriodResponse represents a closing period in API responses.
type PeriodResponse struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	BalanceCheck bool            `json:"balance_check"`
	Closed       bool            `json:"closed"`
	ClosedAt     *time.Time      `json:"closed_at,omitempty"`
	ClosedBy     string          `json:"closed_by,omitempty"`
}

// PeriodFromDomain converts a domain closing period to a response.
func PeriodFromDomain(p *domain.ClosingPeriod) *PeriodResponse {
	return &PeriodResponse{
		ID:           p.ID,
		Type:         string(p.Type),
		Start:        p.PeriodStart,
		End:          p.PeriodEnd,
		TotalDebits:  p.TotalDebits,
		TotalCredits: p.TotalCredits,
		BalanceCheck: p.BalanceCheck,
		Closed:       p.Closed,
		ClosedAt:     p.ClosedAt,
		ClosedBy:     p.ClosedBy,
	}
}

// PeriodsFromDomain converts domain closing periods to responses.
func PeriodsFromDomain(periods []*domain.ClosingPeriod) []*PeriodResponse {
	result := make([]*PeriodResponse, len(periods))
	for i, p := range periods {
		result[i] = PeriodFromDomain(p)
	}
	return result
}

// AuditRecordResponse represents an audit record in API responses.
type AuditRecordResponse struct {
	ID            string         `json:"id"`
	Timestamp     time.Time      `json:"timestamp"`
	TransactionID *string        `json:"transaction_id,omitempty"`
	EventType     string         `json:"event_type"`
	Severity      string         `json:"severity"`
	ActorID       string         `json:"actor_id,omitempty"`
	SourceSystem  string         `json:"source_system,omitempty"`
	SourceIP      string         `json:"source_ip,omitempty"`
	Action        string         `json:"action"`
	EntityType    string         `json:"entity_type"`
	EntityID      string         `json:"entity_id"`
	Description   string         `json:"description,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// AuditRecordFromDomain converts a domain audit record to a response.
func AuditRecordFromDomain(a *domain.AuditRecord) *AuditRecordResponse {
	return &AuditRecordResponse{
		ID:            a.ID,
		Timestamp:     a.Timestamp,
		TransactionID: a.TransactionID,
		EventType:     a.EventType,
		Severity:      string(a.Severity),
		ActorID:       a.ActorID,
		SourceSystem:  a.SourceSystem,
		SourceIP:      a.SourceIP,
		Action:        a.Action,
		EntityType:    a.EntityType,
		EntityID:      a.EntityID,
		Description:   a.Description,
		Metadata:      a.Metadata,
	}
}

// AuditRecordsFromDomain converts domain audit records to responses.
func AuditRecordsFromDomain(records []*domain.AuditRecord) []*AuditRecordResponse {
	result := make([]*AuditRecordResponse, len(records))
	for i, a := range records {
		result[i] = AuditRecordFromDomain(a)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
