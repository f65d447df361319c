package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

type budgetServiceStub struct {
	createFn         func(ctx context.Context, input usecase.CreateBudgetInput) (*domain.BudgetAggregate, error)
	getFn            func(ctx context.Context, userID, budgetID string) (*domain.BudgetAggregate, error)
	listFn           func(ctx context.Context, userID string, month, year int) ([]*domain.BudgetAggregate, error)
	updateFn         func(ctx context.Context, input usecase.UpdateBudgetInput) (*domain.BudgetAggregate, error)
	spendFn          func(ctx context.Context, input usecase.SpendInput) (*domain.BudgetAggregate, *domain.Transaction, error)
	updateSpendingFn func(ctx context.Context, input usecase.UpdateSpendingInput) (*domain.BudgetAggregate, error)
	removeSpendingFn func(ctx context.Context, input usecase.RemoveSpendingInput) (*domain.BudgetAggregate, error)
	deleteFn         func(ctx context.Context, userID, budgetID string) error
}

func (s *budgetServiceStub) CreateBudget(ctx context.Context, input usecase.CreateBudgetInput) (*domain.BudgetAggregate, error) {
	return s.createFn(ctx, input)
}

func (s *budgetServiceStub) GetBudget(ctx context.Context, userID, budgetID string) (*domain.BudgetAggregate, error) {
	return s.getFn(ctx, userID, budgetID)
}

func (s *budgetServiceStub) ListBudgetsByMonth(ctx context.Context, userID string, month, year int) ([]*domain.BudgetAggregate, error) {
	return s.listFn(ctx, userID, month, year)
}

func (s *budgetServiceStub) UpdateBudget(ctx context.Context, input usecase.UpdateBudgetInput) (*domain.BudgetAggregate, error) {
	return s.updateFn(ctx, input)
}

func (s *budgetServiceStub) Spend(ctx context.Context, input usecase.SpendInput) (*domain.BudgetAggregate, *domain.Transaction, error) {
	return s.spendFn(ctx, input)
}

func (s *budgetServiceStub) UpdateSpending(ctx context.Context, input usecase.UpdateSpendingInput) (*domain.BudgetAggregate, error) {
	return s.updateSpendingFn(ctx, input)
}

func (s *budgetServiceStub) RemoveSpending(ctx context.Context, input usecase.RemoveSpendingInput) (*domain.BudgetAggregate, error) {
	return s.removeSpendingFn(ctx, input)
}

func (s *budgetServiceStub) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	return s.deleteFn(ctx, userID, budgetID)
}

func testAggregate(t *testing.T) *domain.BudgetAggregate {
	t.Helper()

	budget, err := domain.NewBudget("budget-1", domain.BudgetProps{
		UserID:   "user-1",
		Name:     "Groceries",
		Amount:   domain.NewMoney(decimal.NewFromInt(500), "USD"),
		Category: domain.BudgetCategoryFlexible,
		Month:    3,
		Year:     2025,
	}, testTime())
	if err != nil {
		t.Fatalf("NewBudget failed: %v", err)
	}

	return domain.NewBudgetAggregate(budget, nil)
}

func withUser(r *http.Request, userID string) *http.Request {
	user := &domain.User{ID: userID, Email: userID + "@example.com", Role: domain.RoleUser}
	return r.WithContext(context.WithValue(r.Context(), middleware.UserContextKey, user))
}

func TestBudgetHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateBudgetInput
	handler := NewBudgetHandler(&budgetServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateBudgetInput) (*domain.BudgetAggregate, error) {
			captured = input
			return testAggregate(t), nil
		},
	})

	body, _ := json.Marshal(dto.CreateBudgetRequest{
		Name:     "Groceries",
		Amount:   decimal.NewFromInt(500),
		Currency: "USD",
		Category: "flexible",
		Month:    3,
		Year:     2025,
	})

	req := withUser(httptest.NewRequest(http.MethodPost, "/budgets", bytes.NewReader(body)), "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.UserID != "user-1" || captured.Name != "Groceries" {
		t.Fatalf("expected input from token and request, got %+v", captured)
	}

	var resp dto.BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "budget-1" {
		t.Fatalf("expected budget ID budget-1, got %s", resp.ID)
	}
}

func TestBudgetHandler_Create_NoUser(t *testing.T) {
	handler := NewBudgetHandler(&budgetServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateBudgetInput) (*domain.BudgetAggregate, error) {
			t.Fatal("CreateBudget should not be called without a user")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/budgets", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBudgetHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewBudgetHandler(&budgetServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateBudgetInput) (*domain.BudgetAggregate, error) {
			t.Fatal("CreateBudget should not be called for invalid payload")
			return nil, nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodPost, "/budgets", bytes.NewBufferString("{invalid json")), "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBudgetHandler_Create_Duplicate(t *testing.T) {
	handler := NewBudgetHandler(&budgetServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateBudgetInput) (*domain.BudgetAggregate, error) {
			return nil, domain.ErrBudgetAlreadyExists
		},
	})

	body, _ := json.Marshal(dto.CreateBudgetRequest{Name: "Groceries", Amount: decimal.NewFromInt(500)})
	req := withUser(httptest.NewRequest(http.MethodPost, "/budgets", bytes.NewReader(body)), "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestBudgetHandler_Get_NotFound(t *testing.T) {
	handler := NewBudgetHandler(&budgetServiceStub{
		getFn: func(ctx context.Context, userID, budgetID string) (*domain.BudgetAggregate, error) {
			return nil, domain.ErrBudgetNotFound
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/budgets/budget-9", nil), "user-1")
	req = setChiURLParam(req, "id", "budget-9")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestBudgetHandler_List(t *testing.T) {
	handler := NewBudgetHandler(&budgetServiceStub{
		listFn: func(ctx context.Context, userID string, month, year int) ([]*domain.BudgetAggregate, error) {
			if month != 3 || year != 2025 {
				t.Fatalf("expected month=3 year=2025, got %d/%d", month, year)
			}
			return []*domain.BudgetAggregate{testAggregate(t)}, nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/budgets?month=3&year=2025", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListBudgetsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Budgets) != 1 || resp.Total != 1 {
		t.Fatalf("expected 1 budget, got %+v", resp)
	}
}

func TestBudgetHandler_Spend_Success(t *testing.T) {
	aggregate := testAggregate(t)
	spending, err := aggregate.Spend(domain.SpendCommand{
		ID:     "txn-1",
		Amount: domain.NewMoney(decimal.NewFromFloat(75.50), "USD"),
		Now:    testTime(),
	})
	if err != nil {
		t.Fatalf("Spend failed: %v", err)
	}

	handler := NewBudgetHandler(&budgetServiceStub{
		spendFn: func(ctx context.Context, input usecase.SpendInput) (*domain.BudgetAggregate, *domain.Transaction, error) {
			if input.BudgetID != "budget-1" || input.UserID != "user-1" {
				t.Fatalf("unexpected spend input: %+v", input)
			}
			return aggregate, spending, nil
		},
	})

	body, _ := json.Marshal(dto.SpendRequest{Amount: decimal.NewFromFloat(75.50)})
	req := withUser(httptest.NewRequest(http.MethodPost, "/budgets/budget-1/spend", bytes.NewReader(body)), "user-1")
	req = setChiURLParam(req, "id", "budget-1")
	rec := httptest.NewRecorder()

	handler.Spend(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SpendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Transaction.ID != "txn-1" {
		t.Fatalf("expected transaction in response, got %+v", resp.Transaction)
	}
	if !resp.Budget.Remaining.Equal(decimal.NewFromFloat(424.50)) {
		t.Fatalf("expected remaining 424.50, got %s", resp.Budget.Remaining)
	}
}

func TestBudgetHandler_Spend_NotOwned(t *testing.T) {
	handler := NewBudgetHandler(&budgetServiceStub{
		spendFn: func(ctx context.Context, input usecase.SpendInput) (*domain.BudgetAggregate, *domain.Transaction, error) {
			return nil, nil, domain.ErrBudgetNotOwned
		},
	})

	body, _ := json.Marshal(dto.SpendRequest{Amount: decimal.NewFromInt(10)})
	req := withUser(httptest.NewRequest(http.MethodPost, "/budgets/budget-1/spend", bytes.NewReader(body)), "user-2")
	req = setChiURLParam(req, "id", "budget-1")
	rec := httptest.NewRecorder()

	handler.Spend(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestBudgetHandler_RemoveSpending(t *testing.T) {
	var captured usecase.RemoveSpendingInput
	handler := NewBudgetHandler(&budgetServiceStub{
		removeSpendingFn: func(ctx context.Context, input usecase.RemoveSpendingInput) (*domain.BudgetAggregate, error) {
			captured = input
			return testAggregate(t), nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodDelete, "/budgets/budget-1/spending/txn-1", nil), "user-1")
	req = setChiURLParam(req, "id", "budget-1")
	req = setChiURLParam(req, "transactionID", "txn-1")
	rec := httptest.NewRecorder()

	handler.RemoveSpending(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.TransactionID != "txn-1" || captured.BudgetID != "budget-1" {
		t.Fatalf("expected ids from URL, got %+v", captured)
	}
}

func TestBudgetHandler_Delete(t *testing.T) {
	handler := NewBudgetHandler(&budgetServiceStub{
		deleteFn: func(ctx context.Context, userID, budgetID string) error {
			if userID != "user-1" || budgetID != "budget-1" {
				t.Fatalf("unexpected delete args: %s %s", userID, budgetID)
			}
			return nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodDelete, "/budgets/budget-1", nil), "user-1")
	req = setChiURLParam(req, "id", "budget-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
