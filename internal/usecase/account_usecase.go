package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Catson28/financial-ledger-system/internal/domain"
	"github.com/Catson28/financial-ledger-system/internal/infrastructure/metrics"
)

// AccountUseCase is the account directory: it validates and resolves chart
// of accounts entries. Accounts are created once; the only exposed update
// is deactivation.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
	}
}

// WithMetrics enables Prometheus instrumentation of account operations.
func (uc *AccountUseCase) WithMetrics(m *metrics.Metrics) *AccountUseCase {
	uc.metrics = m
	return uc
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Definition   domain.AccountDefinition
	CreatedBy    string
	SourceSystem string
	SourceIP     string
}

// CreateAccount creates a chart of accounts entry plus its audit record in
// one atomic unit. Duplicate codes are rejected; a parent, when given, must
// already exist, which makes hierarchy cycles structurally impossible.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := input.Definition.Validate(); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.accountRepo.GetByCodeTx(ctx, tx, input.Definition.Code); err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateAccountCode, input.Definition.Code)
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	var parentID *string
	level := 1

	if input.Definition.ParentCode != "" {
		parent, err := uc.accountRepo.GetByCodeTx(ctx, tx, input.Definition.ParentCode)
		if err != nil {
			return nil, fmt.Errorf("parent %s: %w", input.Definition.ParentCode, err)
		}

		parentID = &parent.ID
		level = parent.Level + 1
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:          uc.idGen.Generate(),
		Code:        input.Definition.Code,
		Name:        input.Definition.Name,
		Type:        input.Definition.Type,
		ParentID:    parentID,
		Level:       level,
		Active:      true,
		Description: input.Definition.Description,
		CreatedAt:   now,
		CreatedBy:   input.CreatedBy,
	}

	if err := uc.accountRepo.CreateTx(ctx, tx, account); err != nil {
		return nil, err
	}

	audit := &domain.AuditRecord{
		Timestamp:    now,
		EventType:    domain.EventAccountCreated,
		Severity:     domain.SeverityInfo,
		ActorID:      input.CreatedBy,
		SourceSystem: input.SourceSystem,
		SourceIP:     input.SourceIP,
		Action:       domain.ActionCreateAccount,
		EntityType:   "account",
		EntityID:     account.ID,
		Description:  fmt.Sprintf("Account %s created", account.Code),
		Metadata:     domain.MarshalState(input.Definition),
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
		uc.metrics.AccountOperations.WithLabelValues("create").Inc()
		uc.metrics.AuditRecordsCreated.WithLabelValues(domain.EventAccountCreated, string(domain.SeverityInfo)).Inc()
	}

	return account, nil
}

// DeactivateAccountInput represents input for deactivating an account.
type DeactivateAccountInput struct {
	Code         string
	CreatedBy    string
	SourceSystem string
	SourceIP     string
}

// DeactivateAccount flips the active flag off. An inactive account keeps
// its history but may not receive new entries.
func (uc *AccountUseCase) DeactivateAccount(ctx context.Context, input DeactivateAccountInput) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByCodeTx(ctx, tx, input.Code)
	if err != nil {
		return err
	}

	if !account.Active {
		return fmt.Errorf("%w: %s", domain.ErrAccountInactive, input.Code)
	}

	if err := uc.accountRepo.SetActiveTx(ctx, tx, input.Code, false); err != nil {
		return err
	}

	audit := &domain.AuditRecord{
		Timestamp:    time.Now().UTC(),
		EventType:    domain.EventAccountDeactivated,
		Severity:     domain.SeverityInfo,
		ActorID:      input.CreatedBy,
		SourceSystem: input.SourceSystem,
		SourceIP:     input.SourceIP,
		Action:       domain.ActionDeactivateAccount,
		EntityType:   "account",
		EntityID:     account.ID,
		Description:  fmt.Sprintf("Account %s deactivated", account.Code),
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, audit); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsDeactivated.Inc()
		uc.metrics.AccountOperations.WithLabelValues("deactivate").Inc()
		uc.metrics.AuditRecordsCreated.WithLabelValues(domain.EventAccountDeactivated, string(domain.SeverityInfo)).Inc()
	}

	return nil
}

// GetAccount resolves an account by code.
func (uc *AccountUseCase) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	return uc.accountRepo.GetByCode(ctx, code)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination, ordered by code.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}
	if input.Limit > 1000 {
		input.Limit = 1000
	}
	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}
