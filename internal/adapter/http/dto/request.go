package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// CreateBudgetRequest represents a request to create a budget.
type CreateBudgetRequest struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
	Category string          `json:"category"`
	Color    string          `json:"color,omitempty"`
	Icon     string          `json:"icon,omitempty"`
	Month    int             `json:"month"`
	Year     int             `json:"year"`
}

// ToUseCaseInput converts to use case input for the given owner.
func (r *CreateBudgetRequest) ToUseCaseInput(userID string) usecase.CreateBudgetInput {
	return usecase.CreateBudgetInput{
		UserID:   userID,
		Name:     r.Name,
		Amount:   r.Amount,
		Currency: domain.Currency(r.Currency),
		Category: domain.BudgetCategory(r.Category),
		Color:    r.Color,
		Icon:     r.Icon,
		Month:    r.Month,
		Year:     r.Year,
	}
}

// UpdateBudgetRequest represents a partial budget update. Absent fields
// are left untouched; the allocation amount cannot be patched.
type UpdateBudgetRequest struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Color    *string `json:"color,omitempty"`
	Icon     *string `json:"icon,omitempty"`
	Month    *int    `json:"month,omitempty"`
	Year     *int    `json:"year,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateBudgetRequest) ToUseCaseInput(userID, budgetID string) usecase.UpdateBudgetInput {
	input := usecase.UpdateBudgetInput{
		UserID:   userID,
		BudgetID: budgetID,
		Name:     r.Name,
		Color:    r.Color,
		Icon:     r.Icon,
		Month:    r.Month,
		Year:     r.Year,
	}

	if r.Category != nil {
		category := domain.BudgetCategory(*r.Category)
		input.Category = &category
	}

	return input
}

// SpendRequest represents a request to record spending against a budget.
type SpendRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Recurring   int             `json:"recurring,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SpendRequest) ToUseCaseInput(userID, budgetID string) usecase.SpendInput {
	return usecase.SpendInput{
		UserID:      userID,
		BudgetID:    budgetID,
		Amount:      r.Amount,
		Currency:    domain.Currency(r.Currency),
		Name:        r.Name,
		Description: r.Description,
		Recurring:   r.Recurring,
	}
}

// UpdateSpendingRequest represents a partial update of a spending
// transaction inside a budget.
type UpdateSpendingRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Recurring   *int             `json:"recurring,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateSpendingRequest) ToUseCaseInput(userID, budgetID, transactionID string) usecase.UpdateSpendingInput {
	return usecase.UpdateSpendingInput{
		UserID:        userID,
		BudgetID:      budgetID,
		TransactionID: transactionID,
		Amount:        r.Amount,
		Name:          r.Name,
		Description:   r.Description,
		Recurring:     r.Recurring,
	}
}

// CreateTransactionRequest represents a request to create a standalone
// transaction.
type CreateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Type        string          `json:"type"`
	Recurring   int             `json:"recurring,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput(userID string) usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		UserID:      userID,
		Amount:      r.Amount,
		Currency:    domain.Currency(r.Currency),
		Type:        domain.TransactionType(r.Type),
		Recurring:   r.Recurring,
		Name:        r.Name,
		Description: r.Description,
	}
}

// UpdateTransactionRequest represents a partial transaction update.
type UpdateTransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Recurring   *int             `json:"recurring,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput(userID, transactionID string) usecase.UpdateTransactionInput {
	return usecase.UpdateTransactionInput{
		UserID:        userID,
		TransactionID: transactionID,
		Amount:        r.Amount,
		Name:          r.Name,
		Description:   r.Description,
		Recurring:     r.Recurring,
	}
}

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.AuthenticateInput {
	return usecase.AuthenticateInput{
		Email:    r.Email,
		Password: r.Password,
	}
}

// UpdateProfileRequest represents a partial profile update.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateProfileRequest) ToUseCaseInput(userID string) usecase.UpdateUserInput {
	return usecase.UpdateUserInput{
		ID:       userID,
		Name:     r.Name,
		Password: r.Password,
	}
}
