package usecase

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
)

// MonthSummary aggregates a user's budgets for one month. Per-currency
// totals are kept separate; amounts in different currencies are never
// summed together.
type MonthSummary struct {
	Month   int                    `json:"month"`
	Year    int                    `json:"year"`
	Budgets []BudgetSummary        `json:"budgets"`
	Totals  map[string]MoneyTotals `json:"totals"`
}

// BudgetSummary is the per-budget slice of a month summary.
type BudgetSummary struct {
	BudgetID  string          `json:"budget_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Currency  string          `json:"currency"`
	Allocated decimal.Decimal `json:"allocated"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Exceeded  bool            `json:"exceeded"`
}

// MoneyTotals holds one currency's aggregated figures.
type MoneyTotals struct {
	Allocated decimal.Decimal `json:"allocated"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ReportUseCase builds read-only reports over budget aggregates. Results
// are cached; every budget mutation invalidates the affected month.
type ReportUseCase struct {
	budgetRepo BudgetRepository
	cache      Cache
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(budgetRepo BudgetRepository, cache Cache) *ReportUseCase {
	return &ReportUseCase{
		budgetRepo: budgetRepo,
		cache:      cache,
	}
}

// GetMonthSummary computes the summary of a user's budgets for a month.
func (uc *ReportUseCase) GetMonthSummary(ctx context.Context, userID string, month, year int) (*MonthSummary, error) {
	if err := domain.ValidateMonth(month); err != nil {
		return nil, err
	}

	if err := domain.ValidateYear(year); err != nil {
		return nil, err
	}

	cacheKey := SummaryCacheKey(userID, month, year)

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, cacheKey); err == nil && data != nil {
			var cached MonthSummary
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	aggregates, err := uc.budgetRepo.ListByMonth(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}

	summary := buildMonthSummary(month, year, aggregates)

	if uc.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			// Best effort; a cache write failure never fails the read.
			_ = uc.cache.Set(ctx, cacheKey, data, SummaryCacheTTL)
		}
	}

	return summary, nil
}

func buildMonthSummary(month, year int, aggregates []*domain.BudgetAggregate) *MonthSummary {
	summary := &MonthSummary{
		Month:   month,
		Year:    year,
		Budgets: make([]BudgetSummary, 0, len(aggregates)),
		Totals:  make(map[string]MoneyTotals),
	}

	for _, aggregate := range aggregates {
		spent := aggregate.Spent()
		remaining := aggregate.RemainingBudget()
		currency := string(aggregate.Budget.Amount.Currency)

		summary.Budgets = append(summary.Budgets, BudgetSummary{
			BudgetID:  aggregate.Budget.ID,
			Name:      aggregate.Budget.Name,
			Category:  string(aggregate.Budget.Category),
			Currency:  currency,
			Allocated: aggregate.Budget.Amount.Amount,
			Spent:     spent.Amount,
			Remaining: remaining.Amount,
			Exceeded:  remaining.Amount.IsNegative(),
		})

		totals := summary.Totals[currency]
		totals.Allocated = totals.Allocated.Add(aggregate.Budget.Amount.Amount)
		totals.Spent = totals.Spent.Add(spent.Amount)
		totals.Remaining = totals.Remaining.Add(remaining.Amount)
		summary.Totals[currency] = totals
	}

	return summary
}
