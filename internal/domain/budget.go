package domain

import (
	"time"
)

// BudgetCategory classifies how a budget behaves month to month.
type BudgetCategory string

const (
	BudgetCategoryFixed    BudgetCategory = "fixed"
	BudgetCategoryFlexible BudgetCategory = "flexible"
)

// IsValid checks that the category is known.
func (c BudgetCategory) IsValid() bool {
	return c == BudgetCategoryFixed || c == BudgetCategoryFlexible
}

// Budget is a named monthly spending allocation. Deleting a budget is a
// soft delete: ArchivedAt is set and archived budgets are excluded from
// all read paths.
type Budget struct {
	ID         string
	UserID     string
	Name       string
	Amount     Money // allocation ceiling, immutable after creation
	Category   BudgetCategory
	Color      string
	Icon       string
	Month      int // 1-12
	Year       int
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BudgetProps holds the data needed to create a budget.
type BudgetProps struct {
	UserID   string
	Name     string
	Amount   Money
	Category BudgetCategory
	Color    string
	Icon     string
	Month    int
	Year     int
}

// NewBudget creates a budget. The allocation amount must be strictly
// positive; zero-amount budgets are rejected, consistent with transaction
// validation.
func NewBudget(id string, props BudgetProps, now time.Time) (*Budget, error) {
	if !props.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return &Budget{
		ID:        id,
		UserID:    props.UserID,
		Name:      props.Name,
		Amount:    props.Amount,
		Category:  props.Category,
		Color:     props.Color,
		Icon:      props.Icon,
		Month:     props.Month,
		Year:      props.Year,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate re-checks the allocation amount.
func (b *Budget) Validate() error {
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	return nil
}

// BudgetPatch holds the mutable display and categorization fields.
// UserID, Amount and timestamps are not representable here.
type BudgetPatch struct {
	Name     *string
	Category *BudgetCategory
	Color    *string
	Icon     *string
	Month    *int
	Year     *int
}

// Update merges the provided fields and bumps UpdatedAt.
func (b *Budget) Update(patch BudgetPatch, now time.Time) {
	if patch.Name != nil {
		b.Name = *patch.Name
	}

	if patch.Category != nil {
		b.Category = *patch.Category
	}

	if patch.Color != nil {
		b.Color = *patch.Color
	}

	if patch.Icon != nil {
		b.Icon = *patch.Icon
	}

	if patch.Month != nil {
		b.Month = *patch.Month
	}

	if patch.Year != nil {
		b.Year = *patch.Year
	}

	b.UpdatedAt = now
}

// Archive marks the budget as logically deleted. Re-archiving overwrites
// the timestamp.
func (b *Budget) Archive(now time.Time) {
	archivedAt := now
	b.ArchivedAt = &archivedAt
	b.UpdatedAt = now
}

// IsArchived reports whether the budget has been soft deleted.
func (b *Budget) IsArchived() bool {
	return b.ArchivedAt != nil
}

// BelongsTo reports whether the budget is owned by the given user.
func (b *Budget) BelongsTo(userID string) bool {
	return b.UserID == userID
}
