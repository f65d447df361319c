package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// BudgetService defines the behavior needed by BudgetHandler.
type BudgetService interface {
	CreateBudget(ctx context.Context, input usecase.CreateBudgetInput) (*domain.BudgetAggregate, error)
	GetBudget(ctx context.Context, userID, budgetID string) (*domain.BudgetAggregate, error)
	ListBudgetsByMonth(ctx context.Context, userID string, month, year int) ([]*domain.BudgetAggregate, error)
	UpdateBudget(ctx context.Context, input usecase.UpdateBudgetInput) (*domain.BudgetAggregate, error)
	Spend(ctx context.Context, input usecase.SpendInput) (*domain.BudgetAggregate, *domain.Transaction, error)
	UpdateSpending(ctx context.Context, input usecase.UpdateSpendingInput) (*domain.BudgetAggregate, error)
	RemoveSpending(ctx context.Context, input usecase.RemoveSpendingInput) (*domain.BudgetAggregate, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
}

// BudgetHandler handles budget-related HTTP requests.
type BudgetHandler struct {
	budgetUC BudgetService
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetUC BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetUC: budgetUC}
}

// Create creates a new budget.
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	aggregate, err := h.budgetUC.CreateBudget(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create budget", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BudgetFromAggregate(aggregate))
}

// Get retrieves a budget by ID.
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return
	}

	aggregate, err := h.budgetUC.GetBudget(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get budget", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetFromAggregate(aggregate))
}

// List lists the user's budgets for a month.
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	month := parseIntQuery(r, "month", 0)
	year := parseIntQuery(r, "year", 0)

	aggregates, err := h.budgetUC.ListBudgetsByMonth(r.Context(), user.ID, month, year)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list budgets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListBudgetsResponse{
		Budgets: dto.BudgetsFromAggregates(aggregates),
		Total:   int64(len(aggregates)),
	})
}

// Update patches a budget's mutable fields.
func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")

	var req dto.UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	aggregate, err := h.budgetUC.UpdateBudget(r.Context(), req.ToUseCaseInput(user.ID, id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update budget", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetFromAggregate(aggregate))
}

// Delete archives a budget.
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.budgetUC.DeleteBudget(r.Context(), user.ID, id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete budget", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Spend records spending against a budget.
func (h *BudgetHandler) Spend(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")

	var req dto.SpendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	aggregate, spending, err := h.budgetUC.Spend(r.Context(), req.ToUseCaseInput(user.ID, id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record spending", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.SpendResponse{
		Budget:      dto.BudgetFromAggregate(aggregate),
		Transaction: dto.TransactionFromDomain(spending),
	})
}

// UpdateSpending patches a spending transaction inside a budget.
func (h *BudgetHandler) UpdateSpending(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	budgetID := chi.URLParam(r, "id")
	transactionID := chi.URLParam(r, "transactionID")

	var req dto.UpdateSpendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	aggregate, err := h.budgetUC.UpdateSpending(r.Context(), req.ToUseCaseInput(user.ID, budgetID, transactionID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update spending", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetFromAggregate(aggregate))
}

// RemoveSpending removes a spending transaction from a budget.
func (h *BudgetHandler) RemoveSpending(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	budgetID := chi.URLParam(r, "id")
	transactionID := chi.URLParam(r, "transactionID")

	aggregate, err := h.budgetUC.RemoveSpending(r.Context(), usecase.RemoveSpendingInput{
		UserID:        user.ID,
		BudgetID:      budgetID,
		TransactionID: transactionID,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to remove spending", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetFromAggregate(aggregate))
}
