package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Catson28/financial-ledger-system/internal/domain"
	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	ParentCode  string `json:"parent_code,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedBy   string `json:"created_by"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(sourceSystem, sourceIP string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Definition: domain.AccountDefinition{
			Code:        r.Code,
			Name:        r.Name,
			Type:        domain.AccountType(r.Type),
			ParentCode:  r.ParentCode,
			Description: r.Description,
		},
		CreatedBy:    r.CreatedBy,
		SourceSystem: sourceSystem,
		SourceIP:     sourceIP,
	}
}

// EntryRequest is one journal entry line in a posting request.
type EntryRequest struct {
	AccountCode  string          `json:"account_code"`
	Side         string          `json:"side"`
	Amount       decimal.Decimal `json:"amount"`
	CostCenter   string          `json:"cost_center,omitempty"`
	BusinessUnit string          `json:"business_unit,omitempty"`
	ProjectCode  string          `json:"project_code,omitempty"`
	Memo         string          `json:"memo,omitempty"`
}

// PostTransactionRequest represents a request to post a transaction.
type PostTransactionRequest struct {
	Date        time.Time      `json:"date"`
	EventType   string         `json:"event_type"`
	Description string         `json:"description,omitempty"`
	BusinessKey string         `json:"business_key,omitempty"`
	Reference   string         `json:"reference,omitempty"`
	CreatedBy   string         `json:"created_by"`
	Entries     []EntryRequest `json:"entries"`
}

// ToUseCaseInput converts to use case input.
func (r *PostTransactionRequest) ToUseCaseInput(sourceSystem, sourceIP string) usecase.PostTransactionInput {
	entries := make([]domain.EntryInput, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = domain.EntryInput{
			AccountCode:  e.AccountCode,
			Side:         domain.EntrySide(e.Side),
			Amount:       e.Amount,
			CostCenter:   e.CostCenter,
			BusinessUnit: e.BusinessUnit,
			ProjectCode:  e.ProjectCode,
			Memo:         e.Memo,
		}
	}

	return usecase.PostTransactionInput{
		Date:         r.Date,
		Entries:      entries,
		EventType:    r.EventType,
		Description:  r.Description,
		BusinessKey:  r.BusinessKey,
		Reference:    r.Reference,
		CreatedBy:    r.CreatedBy,
		SourceSystem: sourceSystem,
		SourceIP:     sourceIP,
	}
}

// ReverseTransactionRequest represents a request to reverse a transaction.
type ReverseTransactionRequest struct {
	Reason    string `json:"reason"`
	CreatedBy string `json:"created_by"`
}

// ClosePeriodRequest represents a request to record a closing period.
type ClosePeriodRequest struct {
	Type     string    `json:"type"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	ClosedBy string    `json:"closed_by"`
}

// ToUseCaseInput converts to use case input.
func (r *ClosePeriodRequest) ToUseCaseInput() usecase.ClosePeriodInput {
	return usecase.ClosePeriodInput{
		Type:     domain.PeriodType(r.Type),
		Start:    r.Start,
		End:      r.End,
		ClosedBy: r.ClosedBy,
	}
}
