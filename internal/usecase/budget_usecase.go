package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
)

// BudgetUseCase handles budget business logic. Every mutation follows the
// same shape: begin a transaction, load the aggregate with a row lock,
// mutate it through aggregate methods, hand it back to Save (which reads
// the watch list diff), commit.
type BudgetUseCase struct {
	txManager  TransactionManager
	budgetRepo BudgetRepository
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	cache      Cache
	idGen      IDGenerator
	clock      Clock
	retrier    Retrier
	metrics    *metrics.Metrics
}

// WithRetrier enables retry of contended mutations. Concurrent spending
// against the same budget serializes on the budget row lock and can
// deadlock under load; the whole load-mutate-save cycle is safe to rerun.
func (uc *BudgetUseCase) WithRetrier(retrier Retrier) *BudgetUseCase {
	uc.retrier = retrier
	return uc
}

// WithMetrics enables operation counters. A nil receiver field means
// metrics are skipped, so tests can construct the use case without a
// registry.
func (uc *BudgetUseCase) WithMetrics(m *metrics.Metrics) *BudgetUseCase {
	uc.metrics = m
	return uc
}

// NewBudgetUseCase creates a new BudgetUseCase.
func NewBudgetUseCase(
	txManager TransactionManager,
	budgetRepo BudgetRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	cache Cache,
	idGen IDGenerator,
	clock Clock,
) *BudgetUseCase {
	return &BudgetUseCase{
		txManager:  txManager,
		budgetRepo: budgetRepo,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		cache:      cache,
		idGen:      idGen,
		clock:      clock,
	}
}

// CreateBudgetInput represents input for creating a budget.
type CreateBudgetInput struct {
	UserID   string
	Name     string
	Amount   decimal.Decimal
	Currency domain.Currency
	Category domain.BudgetCategory
	Color    string
	Icon     string
	Month    int
	Year     int
}

// CreateBudget creates a new budget for the user and month.
func (uc *BudgetUseCase) CreateBudget(ctx context.Context, input CreateBudgetInput) (*domain.BudgetAggregate, error) {
	if err := domain.ValidateBudgetName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateMonth(input.Month); err != nil {
		return nil, err
	}

	if err := domain.ValidateYear(input.Year); err != nil {
		return nil, err
	}

	if err := domain.ValidateColor(input.Color); err != nil {
		return nil, err
	}

	if input.Currency != "" {
		if err := domain.ValidateCurrency(input.Currency); err != nil {
			return nil, err
		}
	}

	if !input.Category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}

	exists, err := uc.budgetRepo.ExistsForMonth(ctx, input.UserID, input.Name, input.Month, input.Year)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, domain.ErrBudgetAlreadyExists
	}

	now := uc.clock.Now()

	budget, err := domain.NewBudget(uc.idGen.Generate(), domain.BudgetProps{
		UserID:   input.UserID,
		Name:     input.Name,
		Amount:   domain.NewMoney(input.Amount, input.Currency),
		Category: input.Category,
		Color:    input.Color,
		Icon:     input.Icon,
		Month:    input.Month,
		Year:     input.Year,
	}, now)
	if err != nil {
		return nil, err
	}

	aggregate := domain.NewBudgetAggregate(budget, nil)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.budgetRepo.Create(ctx, tx, aggregate); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   budget.ID,
		AggregateType: domain.AggregateTypeBudget,
		EventType:     domain.EventTypeBudgetCreated,
		Payload: domain.MarshalState(domain.BudgetCreatedEvent{
			BudgetID: budget.ID,
			UserID:   budget.UserID,
			Name:     budget.Name,
			Amount:   budget.Amount.Amount.String(),
			Currency: string(budget.Amount.Currency),
			Month:    budget.Month,
			Year:     budget.Year,
		}),
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BudgetsCreated.Inc()
	}
	uc.invalidateSummary(ctx, budget.UserID, budget.Month, budget.Year)
	uc.audit(ctx, input.UserID, domain.AuditActionBudgetCreate, budget.ID, nil, budget)

	return aggregate, nil
}

// GetBudget retrieves an active budget owned by the user. Missing,
// archived and foreign budgets all collapse into BUDGET_NOT_FOUND so
// existence never leaks across users.
func (uc *BudgetUseCase) GetBudget(ctx context.Context, userID, budgetID string) (*domain.BudgetAggregate, error) {
	aggregate, err := uc.budgetRepo.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	if aggregate.IsArchived() || !aggregate.Budget.BelongsTo(userID) {
		return nil, domain.ErrBudgetNotFound
	}

	return aggregate, nil
}

// ListBudgetsByMonth lists the user's active budgets for a month.
func (uc *BudgetUseCase) ListBudgetsByMonth(ctx context.Context, userID string, month, year int) ([]*domain.BudgetAggregate, error) {
	if err := domain.ValidateMonth(month); err != nil {
		return nil, err
	}

	if err := domain.ValidateYear(year); err != nil {
		return nil, err
	}

	return uc.budgetRepo.ListByMonth(ctx, userID, month, year)
}

// UpdateBudgetInput represents input for updating a budget's mutable
// fields. The owner and the allocation amount cannot be patched.
type UpdateBudgetInput struct {
	UserID   string
	BudgetID string
	Name     *string
	Category *domain.BudgetCategory
	Color    *string
	Icon     *string
	Month    *int
	Year     *int
}

// UpdateBudget patches display and categorization fields.
func (uc *BudgetUseCase) UpdateBudget(ctx context.Context, input UpdateBudgetInput) (*domain.BudgetAggregate, error) {
	if input.Name != nil {
		if err := domain.ValidateBudgetName(*input.Name); err != nil {
			return nil, err
		}
	}

	if input.Month != nil {
		if err := domain.ValidateMonth(*input.Month); err != nil {
			return nil, err
		}
	}

	if input.Color != nil {
		if err := domain.ValidateColor(*input.Color); err != nil {
			return nil, err
		}
	}

	if input.Category != nil && !input.Category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	aggregate, err := uc.loadOwnedForUpdate(ctx, tx, input.UserID, input.BudgetID)
	if err != nil {
		return nil, err
	}

	before := *aggregate.Budget

	aggregate.Budget.Update(domain.BudgetPatch{
		Name:     input.Name,
		Category: input.Category,
		Color:    input.Color,
		Icon:     input.Icon,
		Month:    input.Month,
		Year:     input.Year,
	}, uc.clock.Now())

	if err := uc.budgetRepo.Save(ctx, tx, aggregate); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateSummary(ctx, input.UserID, before.Month, before.Year)
	uc.invalidateSummary(ctx, input.UserID, aggregate.Budget.Month, aggregate.Budget.Year)
	uc.audit(ctx, input.UserID, domain.AuditActionBudgetUpdate, input.BudgetID, &before, aggregate.Budget)

	return aggregate, nil
}

// SpendInput represents input for recording spending against a budget.
type SpendInput struct {
	UserID      string
	BudgetID    string
	Amount      decimal.Decimal
	Currency    domain.Currency
	Name        string
	Description string
	Recurring   int
}

// Spend records a spending transaction against the budget.
func (uc *BudgetUseCase) Spend(ctx context.Context, input SpendInput) (*domain.BudgetAggregate, *domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, nil, err
	}

	var (
		aggregate *domain.BudgetAggregate
		spending  *domain.Transaction
	)

	operation := func() error {
		var err error
		aggregate, spending, err = uc.spendOnce(ctx, input)
		return err
	}

	start := uc.clock.Now()

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		return nil, nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SpendingRecorded.Inc()
		amount, _ := spending.Amount.Amount.Float64()
		uc.metrics.SpendingAmount.Observe(amount)
		uc.metrics.SpendingDuration.Observe(uc.clock.Now().Sub(start).Seconds())
		if aggregate.RemainingBudget().Amount.IsNegative() {
			uc.metrics.BudgetsExceeded.Inc()
		}
	}

	uc.invalidateSummary(ctx, input.UserID, aggregate.Budget.Month, aggregate.Budget.Year)
	uc.audit(ctx, input.UserID, domain.AuditActionBudgetSpend, aggregate.Budget.ID, nil, spending)

	return aggregate, spending, nil
}

func (uc *BudgetUseCase) spendOnce(ctx context.Context, input SpendInput) (*domain.BudgetAggregate, *domain.Transaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	aggregate, err := uc.loadOwnedForUpdate(ctx, tx, input.UserID, input.BudgetID)
	if err != nil {
		return nil, nil, err
	}

	now := uc.clock.Now()

	spending, err := aggregate.Spend(domain.SpendCommand{
		ID:          uc.idGen.Generate(),
		Amount:      domain.Money{Amount: input.Amount, Currency: input.Currency},
		Name:        input.Name,
		Description: input.Description,
		Recurring:   input.Recurring,
		Now:         now,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := uc.budgetRepo.Save(ctx, tx, aggregate); err != nil {
		return nil, nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   aggregate.Budget.ID,
		AggregateType: domain.AggregateTypeBudget,
		EventType:     domain.EventTypeSpendingAdded,
		Payload: domain.MarshalState(domain.SpendingRecordedEvent{
			BudgetID:      aggregate.Budget.ID,
			TransactionID: spending.ID,
			Amount:        spending.Amount.Amount.String(),
			Currency:      string(spending.Amount.Currency),
			Remaining:     aggregate.RemainingBudget().Amount.String(),
		}),
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return aggregate, spending, nil
}

// UpdateSpendingInput represents input for editing a spending transaction.
type UpdateSpendingInput struct {
	UserID        string
	BudgetID      string
	TransactionID string
	Amount        *decimal.Decimal
	Name          *string
	Description   *string
	Recurring     *int
}

// UpdateSpending patches a spending transaction inside the aggregate.
func (uc *BudgetUseCase) UpdateSpending(ctx context.Context, input UpdateSpendingInput) (*domain.BudgetAggregate, error) {
	if input.Amount != nil {
		if err := domain.ValidateAmount(*input.Amount); err != nil {
			return nil, err
		}
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	aggregate, err := uc.loadOwnedForUpdate(ctx, tx, input.UserID, input.BudgetID)
	if err != nil {
		return nil, err
	}

	spending, err := aggregate.SpendingByID(input.TransactionID)
	if err != nil {
		return nil, err
	}

	before := *spending

	var amount *domain.Money
	if input.Amount != nil {
		m := domain.NewMoney(*input.Amount, aggregate.Budget.Amount.Currency)
		amount = &m
	}

	spending.Update(domain.TransactionPatch{
		Amount:      amount,
		Name:        input.Name,
		Description: input.Description,
		Recurring:   input.Recurring,
	}, uc.clock.Now())

	if err := aggregate.UpdateSpending(spending); err != nil {
		return nil, err
	}

	if err := uc.budgetRepo.Save(ctx, tx, aggregate); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateSummary(ctx, input.UserID, aggregate.Budget.Month, aggregate.Budget.Year)
	uc.audit(ctx, input.UserID, domain.AuditActionSpendingEdit, input.TransactionID, &before, spending)

	return aggregate, nil
}

// RemoveSpendingInput identifies a spending transaction to remove.
type RemoveSpendingInput struct {
	UserID        string
	BudgetID      string
	TransactionID string
}

// RemoveSpending removes a spending transaction from the aggregate.
func (uc *BudgetUseCase) RemoveSpending(ctx context.Context, input RemoveSpendingInput) (*domain.BudgetAggregate, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	aggregate, err := uc.loadOwnedForUpdate(ctx, tx, input.UserID, input.BudgetID)
	if err != nil {
		return nil, err
	}

	spending, err := aggregate.SpendingByID(input.TransactionID)
	if err != nil {
		return nil, err
	}

	if err := aggregate.RemoveSpending(spending); err != nil {
		return nil, err
	}

	if err := uc.budgetRepo.Save(ctx, tx, aggregate); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   aggregate.Budget.ID,
		AggregateType: domain.AggregateTypeBudget,
		EventType:     domain.EventTypeSpendingRemoved,
		Payload: domain.MarshalState(domain.SpendingRemovedEvent{
			BudgetID:      aggregate.Budget.ID,
			TransactionID: spending.ID,
			Amount:        spending.Amount.Amount.String(),
		}),
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SpendingRemoved.Inc()
	}
	uc.invalidateSummary(ctx, input.UserID, aggregate.Budget.Month, aggregate.Budget.Year)
	uc.audit(ctx, input.UserID, domain.AuditActionSpendingRemove, input.TransactionID, spending, nil)

	return aggregate, nil
}

// DeleteBudget archives the budget. Archiving is a logical delete; the
// budget disappears from all read paths but its rows remain.
func (uc *BudgetUseCase) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	aggregate, err := uc.loadOwnedForUpdate(ctx, tx, userID, budgetID)
	if err != nil {
		return err
	}

	now := uc.clock.Now()
	aggregate.Archive(now)

	if err := uc.budgetRepo.Save(ctx, tx, aggregate); err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   aggregate.Budget.ID,
		AggregateType: domain.AggregateTypeBudget,
		EventType:     domain.EventTypeBudgetArchived,
		Payload: domain.MarshalState(domain.BudgetArchivedEvent{
			BudgetID:   aggregate.Budget.ID,
			UserID:     userID,
			ArchivedAt: now.Format("2006-01-02T15:04:05Z07:00"),
		}),
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.BudgetsArchived.Inc()
	}
	uc.invalidateSummary(ctx, userID, aggregate.Budget.Month, aggregate.Budget.Year)
	uc.audit(ctx, userID, domain.AuditActionBudgetArchive, budgetID, aggregate.Budget, nil)

	return nil
}

// loadOwnedForUpdate loads and locks an aggregate for mutation. Missing
// and archived budgets surface as not-found; a live budget owned by
// someone else surfaces as an ownership error.
func (uc *BudgetUseCase) loadOwnedForUpdate(ctx context.Context, tx Transaction, userID, budgetID string) (*domain.BudgetAggregate, error) {
	aggregate, err := uc.budgetRepo.GetByIDForUpdate(ctx, tx, budgetID)
	if err != nil {
		return nil, err
	}

	if aggregate.IsArchived() {
		return nil, domain.ErrBudgetNotFound
	}

	if !aggregate.Budget.BelongsTo(userID) {
		return nil, domain.ErrBudgetNotOwned
	}

	return aggregate, nil
}

func (uc *BudgetUseCase) invalidateSummary(ctx context.Context, userID string, month, year int) {
	if uc.cache == nil {
		return
	}

	// Best effort; a stale summary expires via TTL anyway.
	_ = uc.cache.Delete(ctx, SummaryCacheKey(userID, month, year))
}

func (uc *BudgetUseCase) audit(ctx context.Context, userID string, action domain.AuditAction, resourceID string, before, after any) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: domain.AggregateTypeBudget,
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    uc.clock.Now(),
	})
}

// SummaryCacheKey builds the cache key for a user's month summary.
func SummaryCacheKey(userID string, month, year int) string {
	return fmt.Sprintf("summary:%s:%04d-%02d", userID, year, month)
}
