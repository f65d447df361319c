package dto

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
)

func TestCreateBudgetRequest_ToUseCaseInput(t *testing.T) {
	req := CreateBudgetRequest{
		Name:     "Groceries",
		Amount:   decimal.NewFromInt(500),
		Currency: "USD",
		Category: "flexible",
		Color:    "#00ff00",
		Month:    3,
		Year:     2025,
	}

	input := req.ToUseCaseInput("user-1")

	if input.UserID != "user-1" {
		t.Fatalf("expected user id to be set, got %s", input.UserID)
	}
	if input.Currency != domain.Currency("USD") {
		t.Fatalf("expected currency USD, got %s", input.Currency)
	}
	if input.Category != domain.BudgetCategoryFlexible {
		t.Fatalf("expected flexible category, got %s", input.Category)
	}
	if !input.Amount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected amount 500, got %s", input.Amount)
	}
}

func TestUpdateBudgetRequest_ToUseCaseInput_PartialFields(t *testing.T) {
	name := "Rent"
	category := "fixed"

	req := UpdateBudgetRequest{Name: &name, Category: &category}
	input := req.ToUseCaseInput("user-1", "budget-1")

	if input.Name == nil || *input.Name != "Rent" {
		t.Fatalf("expected name patch, got %v", input.Name)
	}
	if input.Category == nil || *input.Category != domain.BudgetCategoryFixed {
		t.Fatalf("expected category patch, got %v", input.Category)
	}
	if input.Color != nil || input.Icon != nil || input.Month != nil || input.Year != nil {
		t.Fatal("expected absent fields to stay nil")
	}
}

func TestSpendRequest_ToUseCaseInput(t *testing.T) {
	req := SpendRequest{
		Amount:    decimal.NewFromFloat(75.50),
		Name:      "Weekly shop",
		Recurring: 7,
	}

	input := req.ToUseCaseInput("user-1", "budget-1")

	if input.BudgetID != "budget-1" || input.UserID != "user-1" {
		t.Fatalf("expected ids to be set, got %+v", input)
	}
	if input.Currency != "" {
		t.Fatalf("expected empty currency to pass through, got %s", input.Currency)
	}
	if input.Recurring != 7 {
		t.Fatalf("expected recurring interval 7, got %d", input.Recurring)
	}
}

func TestCreateTransactionRequest_ToUseCaseInput(t *testing.T) {
	req := CreateTransactionRequest{
		Amount: decimal.NewFromInt(1200),
		Type:   "income",
		Name:   "Salary",
	}

	input := req.ToUseCaseInput("user-1")

	if input.Type != domain.TransactionIncome {
		t.Fatalf("expected income type, got %s", input.Type)
	}
	if input.UserID != "user-1" {
		t.Fatalf("expected user id to be set, got %s", input.UserID)
	}
}
