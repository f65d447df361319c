package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
)

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Type        string          `json:"type"`
	Recurring   int             `json:"recurring"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		Amount:      t.Amount.Amount,
		Currency:    string(t.Amount.Currency),
		Type:        string(t.Type),
		Recurring:   t.Recurring,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// BudgetResponse represents a budget with its derived figures in API
// responses. Spent and Remaining are computed from the aggregate on
// every render.
type BudgetResponse struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Amount    decimal.Decimal        `json:"amount"`
	Currency  string                 `json:"currency"`
	Category  string                 `json:"category"`
	Color     string                 `json:"color,omitempty"`
	Icon      string                 `json:"icon,omitempty"`
	Month     int                    `json:"month"`
	Year      int                    `json:"year"`
	Spent     decimal.Decimal        `json:"spent"`
	Remaining decimal.Decimal        `json:"remaining"`
	Exceeded  bool                   `json:"exceeded"`
	Spending  []*TransactionResponse `json:"spending"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// BudgetFromAggregate converts a budget aggregate to a response.
func BudgetFromAggregate(a *domain.BudgetAggregate) *BudgetResponse {
	remaining := a.RemainingBudget()

	return &BudgetResponse{
		ID:        a.Budget.ID,
		Name:      a.Budget.Name,
		Amount:    a.Budget.Amount.Amount,
		Currency:  string(a.Budget.Amount.Currency),
		Category:  string(a.Budget.Category),
		Color:     a.Budget.Color,
		Icon:      a.Budget.Icon,
		Month:     a.Budget.Month,
		Year:      a.Budget.Year,
		Spent:     a.Spent().Amount,
		Remaining: remaining.Amount,
		Exceeded:  remaining.Amount.IsNegative(),
		Spending:  TransactionsFromDomain(a.Spending().Items()),
		CreatedAt: a.Budget.CreatedAt,
		UpdatedAt: a.Budget.UpdatedAt,
	}
}

// BudgetsFromAggregates converts budget aggregates to responses.
func BudgetsFromAggregates(aggregates []*domain.BudgetAggregate) []*BudgetResponse {
	result := make([]*BudgetResponse, len(aggregates))
	for i, a := range aggregates {
		result[i] = BudgetFromAggregate(a)
	}
	return result
}

// ListBudgetsResponse wraps a budget listing.
type ListBudgetsResponse struct {
	Budgets []*BudgetResponse `json:"budgets"`
	Total   int64             `json:"total"`
}

// ListTransactionsResponse wraps a transaction listing.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// SpendResponse is returned after recording spending: the transaction
// that was created plus the budget's updated figures.
type SpendResponse struct {
	Budget      *BudgetResponse      `json:"budget"`
	Transaction *TransactionResponse `json:"transaction"`
}

// UserResponse represents a user in API responses. The password hash is
// never rendered.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// AuditLogResponse represents an audit log entry in API responses.
type AuditLogResponse struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Action       string      `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id"`
	BeforeState  domain.JSON `json:"before_state,omitempty"`
	AfterState   domain.JSON `json:"after_state,omitempty"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// AuditLogsFromDomain converts domain audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			BeforeState:  l.BeforeState,
			AfterState:   l.AfterState,
			Status:       l.Status,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
