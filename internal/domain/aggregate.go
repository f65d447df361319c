package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultSpendingName is used when a spend command omits a name.
const DefaultSpendingName = "Spending"

// BudgetAggregate is the consistency root composing one budget with the
// watch list of its spending transactions. Use cases load an aggregate,
// mutate it through these methods and hand it back to the repository,
// which reads the watch list diff to persist a minimal write set.
type BudgetAggregate struct {
	Budget   *Budget
	spending *TransactionWatchList
}

// NewBudgetAggregate builds an aggregate, capturing the given spending
// transactions as the watch list baseline.
func NewBudgetAggregate(budget *Budget, spending []*Transaction) *BudgetAggregate {
	return &BudgetAggregate{
		Budget:   budget,
		spending: NewTransactionWatchList(spending),
	}
}

// SpendCommand describes a new spending against the budget. Name and
// Description default when empty; a zero-value Currency inherits the
// budget's currency.
type SpendCommand struct {
	ID          string
	Amount      Money
	Name        string
	Description string
	Recurring   int
	Now         time.Time
}

// Spend records a new budget-spending transaction stamped with the budget
// owner's user id. The amount must be strictly positive and in the
// budget's currency; this entry check is what keeps the derived totals
// currency-safe without per-call checks.
func (a *BudgetAggregate) Spend(cmd SpendCommand) (*Transaction, error) {
	amount := cmd.Amount
	if amount.Currency == "" {
		amount.Currency = a.Budget.Amount.Currency
	}

	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if amount.Currency != a.Budget.Amount.Currency {
		return nil, ErrCurrencyMismatch
	}

	name := cmd.Name
	if name == "" {
		name = DefaultSpendingName
	}

	description := cmd.Description
	if description == "" {
		description = "Spending for " + a.Budget.Name
	}

	t := NewTransaction(cmd.ID, TransactionProps{
		UserID:      a.Budget.UserID,
		Amount:      amount,
		Type:        TransactionBudgetSpending,
		Recurring:   cmd.Recurring,
		Name:        name,
		Description: description,
	}, cmd.Now)

	a.spending.Add(t)

	return t, nil
}

// RemoveSpending drops the transaction from the aggregate.
func (a *BudgetAggregate) RemoveSpending(t *Transaction) error {
	if !a.spending.Remove(t) {
		return ErrSpendingNotFound
	}

	return nil
}

// UpdateSpending replaces the matching transaction by identity. The new
// amount must stay in the budget's currency.
func (a *BudgetAggregate) UpdateSpending(t *Transaction) error {
	if t.Amount.Currency != a.Budget.Amount.Currency {
		return ErrCurrencyMismatch
	}

	if !a.spending.Update(t) {
		return ErrSpendingNotFound
	}

	return nil
}

// SpendingByID returns the current spending transaction with the given id.
func (a *BudgetAggregate) SpendingByID(id string) (*Transaction, error) {
	t, ok := a.spending.Get(id)
	if !ok {
		return nil, ErrSpendingNotFound
	}

	return t, nil
}

// Spending exposes the watch list for the persistence layer.
func (a *BudgetAggregate) Spending() *TransactionWatchList {
	return a.spending
}

// Spent sums all spending amounts. Recomputed on every call; correctness
// does not depend on cache invalidation. Same-currency is guaranteed by
// the Spend/UpdateSpending entry checks.
func (a *BudgetAggregate) Spent() Money {
	total := decimal.Zero
	for _, t := range a.spending.Items() {
		total = total.Add(t.Amount.Amount)
	}

	return Money{Amount: total, Currency: a.Budget.Amount.Currency}
}

// TotalBudget returns the allocation ceiling.
func (a *BudgetAggregate) TotalBudget() Money {
	return a.Budget.Amount
}

// RemainingBudget returns the allocation minus everything spent.
func (a *BudgetAggregate) RemainingBudget() Money {
	return Money{
		Amount:   a.Budget.Amount.Amount.Sub(a.Spent().Amount),
		Currency: a.Budget.Amount.Currency,
	}
}

// Validate delegates to the budget entity's amount check.
func (a *BudgetAggregate) Validate() error {
	return a.Budget.Validate()
}

// Archive soft deletes the budget.
func (a *BudgetAggregate) Archive(now time.Time) {
	a.Budget.Archive(now)
}

// IsArchived reports whether the inner budget has been soft deleted.
func (a *BudgetAggregate) IsArchived() bool {
	return a.Budget.IsArchived()
}
