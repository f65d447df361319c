package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
)

// TransactionUseCase handles standalone transactions: income, outcome and
// transfers. Budget spending never goes through here; it is created and
// mutated only via the budget aggregate.
type TransactionUseCase struct {
	transactionRepo TransactionRepository
	auditRepo       AuditRepository
	idGen           IDGenerator
	clock           Clock
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	transactionRepo TransactionRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	clock Clock,
) *TransactionUseCase {
	return &TransactionUseCase{
		transactionRepo: transactionRepo,
		auditRepo:       auditRepo,
		idGen:           idGen,
		clock:           clock,
	}
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	UserID      string
	Amount      decimal.Decimal
	Currency    domain.Currency
	Type        domain.TransactionType
	Recurring   int
	Name        string
	Description string
}

// CreateTransaction creates a standalone transaction.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if !input.Type.IsValid() || input.Type == domain.TransactionBudgetSpending {
		return nil, domain.ErrInvalidTransactionType
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if input.Currency != "" {
		if err := domain.ValidateCurrency(input.Currency); err != nil {
			return nil, err
		}
	}

	if input.Recurring < 0 {
		return nil, domain.ErrInvalidRecurrence
	}

	transaction := domain.NewTransaction(uc.idGen.Generate(), domain.TransactionProps{
		UserID:      input.UserID,
		Amount:      domain.NewMoney(input.Amount, input.Currency),
		Type:        input.Type,
		Recurring:   input.Recurring,
		Name:        input.Name,
		Description: input.Description,
	}, uc.clock.Now())

	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	uc.audit(ctx, input.UserID, domain.AuditActionTransactionCreate, transaction.ID, nil, transaction)

	return transaction, nil
}

// GetTransaction retrieves a transaction owned by the user. Ownership
// failures collapse into not-found.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}

	return transaction, nil
}

// ListTransactions lists the user's transactions, newest first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.transactionRepo.ListByUser(ctx, userID, limit, offset)
}

// UpdateTransactionInput represents input for updating a transaction.
type UpdateTransactionInput struct {
	UserID        string
	TransactionID string
	Amount        *decimal.Decimal
	Name          *string
	Description   *string
	Recurring     *int
}

// UpdateTransaction patches a standalone transaction.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	if input.Amount != nil {
		if err := domain.ValidateAmount(*input.Amount); err != nil {
			return nil, err
		}
	}

	if input.Recurring != nil && *input.Recurring < 0 {
		return nil, domain.ErrInvalidRecurrence
	}

	transaction, err := uc.GetTransaction(ctx, input.UserID, input.TransactionID)
	if err != nil {
		return nil, err
	}

	if transaction.Type == domain.TransactionBudgetSpending {
		return nil, domain.ErrTransactionNotFound
	}

	before := *transaction

	var amount *domain.Money
	if input.Amount != nil {
		m := domain.NewMoney(*input.Amount, transaction.Amount.Currency)
		amount = &m
	}

	transaction.Update(domain.TransactionPatch{
		Amount:      amount,
		Name:        input.Name,
		Description: input.Description,
		Recurring:   input.Recurring,
	}, uc.clock.Now())

	if err := uc.transactionRepo.Update(ctx, transaction); err != nil {
		return nil, err
	}

	uc.audit(ctx, input.UserID, domain.AuditActionTransactionUpdate, transaction.ID, &before, transaction)

	return transaction, nil
}

// DeleteTransaction removes a standalone transaction.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	transaction, err := uc.GetTransaction(ctx, userID, transactionID)
	if err != nil {
		return err
	}

	if transaction.Type == domain.TransactionBudgetSpending {
		return domain.ErrTransactionNotFound
	}

	if err := uc.transactionRepo.Delete(ctx, transactionID); err != nil {
		return err
	}

	uc.audit(ctx, userID, domain.AuditActionTransactionDelete, transactionID, transaction, nil)

	return nil
}

func (uc *TransactionUseCase) audit(ctx context.Context, userID string, action domain.AuditAction, resourceID string, before, after any) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: domain.AggregateTypeTransaction,
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    uc.clock.Now(),
	})
}
