package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// BudgetRepository implements usecase.BudgetRepository. Spending
// transactions live in the transactions table and are linked to their
// budget through the budget_transactions junction table; Save reads the
// aggregate's watch list so only the changed rows are touched.
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, name, amount, currency, category, color, icon, month, year, archived_at, created_at, updated_at`

// Create inserts the budget and any spending already on the aggregate.
func (r *BudgetRepository) Create(ctx context.Context, tx usecase.Transaction, aggregate *domain.BudgetAggregate) error {
	pgxTx := tx.(*Tx).PgxTx()
	b := aggregate.Budget

	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := pgxTx.Exec(ctx, query,
		b.ID,
		b.UserID,
		b.Name,
		decimalToNumeric(b.Amount.Amount),
		string(b.Amount.Currency),
		string(b.Category),
		b.Color,
		b.Icon,
		b.Month,
		b.Year,
		archivedAtToPg(b.ArchivedAt),
		timeToPgTimestamptz(b.CreatedAt),
		timeToPgTimestamptz(b.UpdatedAt),
	)
	if err != nil {
		return err
	}

	for _, t := range aggregate.Spending().Added() {
		if err := r.insertSpending(ctx, pgxTx, b.ID, t); err != nil {
			return err
		}
	}

	return nil
}

// GetByID loads an aggregate with its full spending collection.
func (r *BudgetRepository) GetByID(ctx context.Context, id string) (*domain.BudgetAggregate, error) {
	return r.getByID(ctx, r.pool, id, false)
}

// GetByIDForUpdate loads an aggregate with a FOR UPDATE lock on the
// budget row. The lock serializes concurrent mutations of the same
// aggregate; spending rows do not need their own locks.
func (r *BudgetRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.BudgetAggregate, error) {
	return r.getByID(ctx, tx.(*Tx).PgxTx(), id, true)
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *BudgetRepository) getByID(ctx context.Context, q queryer, id string, forUpdate bool) (*domain.BudgetAggregate, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	budget, err := scanBudget(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}

		return nil, err
	}

	spending, err := r.loadSpending(ctx, q, id)
	if err != nil {
		return nil, err
	}

	return domain.NewBudgetAggregate(budget, spending), nil
}

// ListByMonth lists the user's active budgets for a month, each with its
// spending collection.
func (r *BudgetRepository) ListByMonth(ctx context.Context, userID string, month, year int) ([]*domain.BudgetAggregate, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1 AND month = $2 AND year = $3 AND archived_at IS NULL
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	aggregates := make([]*domain.BudgetAggregate, 0, len(budgets))
	for _, budget := range budgets {
		spending, err := r.loadSpending(ctx, r.pool, budget.ID)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, domain.NewBudgetAggregate(budget, spending))
	}

	return aggregates, nil
}

// ExistsForMonth reports whether the user already has an active budget
// with this name for the month.
func (r *BudgetRepository) ExistsForMonth(ctx context.Context, userID, name string, month, year int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM budgets
			WHERE user_id = $1 AND name = $2 AND month = $3 AND year = $4 AND archived_at IS NULL
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, name, month, year).Scan(&exists)

	return exists, err
}

// Save persists the aggregate's pending changes: budget scalars plus the
// watch list's added, updated and removed spending transactions.
func (r *BudgetRepository) Save(ctx context.Context, tx usecase.Transaction, aggregate *domain.BudgetAggregate) error {
	pgxTx := tx.(*Tx).PgxTx()
	b := aggregate.Budget

	query := `
		UPDATE budgets
		SET name = $2, category = $3, color = $4, icon = $5, month = $6, year = $7,
		    archived_at = $8, updated_at = $9
		WHERE id = $1
	`

	if _, err := pgxTx.Exec(ctx, query,
		b.ID,
		b.Name,
		string(b.Category),
		b.Color,
		b.Icon,
		b.Month,
		b.Year,
		archivedAtToPg(b.ArchivedAt),
		timeToPgTimestamptz(b.UpdatedAt),
	); err != nil {
		return err
	}

	spending := aggregate.Spending()

	for _, t := range spending.Added() {
		if err := r.insertSpending(ctx, pgxTx, b.ID, t); err != nil {
			return err
		}
	}

	for _, t := range spending.Updated() {
		if err := r.updateSpending(ctx, pgxTx, t); err != nil {
			return err
		}
	}

	for _, t := range spending.Removed() {
		if err := r.deleteSpending(ctx, pgxTx, b.ID, t.ID); err != nil {
			return err
		}
	}

	return nil
}

func (r *BudgetRepository) insertSpending(ctx context.Context, tx pgx.Tx, budgetID string, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, amount, currency, type, recurring, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if _, err := tx.Exec(ctx, query,
		t.ID,
		t.UserID,
		decimalToNumeric(t.Amount.Amount),
		string(t.Amount.Currency),
		string(t.Type),
		t.Recurring,
		t.Name,
		t.Description,
		timeToPgTimestamptz(t.CreatedAt),
		timeToPgTimestamptz(t.UpdatedAt),
	); err != nil {
		return err
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO budget_transactions (budget_id, transaction_id) VALUES ($1, $2)`,
		budgetID, t.ID,
	)

	return err
}

func (r *BudgetRepository) updateSpending(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $2, currency = $3, recurring = $4, name = $5, description = $6, updated_at = $7
		WHERE id = $1
	`

	_, err := tx.Exec(ctx, query,
		t.ID,
		decimalToNumeric(t.Amount.Amount),
		string(t.Amount.Currency),
		t.Recurring,
		t.Name,
		t.Description,
		timeToPgTimestamptz(t.UpdatedAt),
	)

	return err
}

func (r *BudgetRepository) deleteSpending(ctx context.Context, tx pgx.Tx, budgetID, transactionID string) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM budget_transactions WHERE budget_id = $1 AND transaction_id = $2`,
		budgetID, transactionID,
	); err != nil {
		return err
	}

	_, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, transactionID)

	return err
}

func (r *BudgetRepository) loadSpending(ctx context.Context, q queryer, budgetID string) ([]*domain.Transaction, error) {
	query := `
		SELECT t.id, t.user_id, t.amount, t.currency, t.type, t.recurring, t.name, t.description, t.created_at, t.updated_at
		FROM transactions t
		JOIN budget_transactions bt ON bt.transaction_id = t.id
		WHERE bt.budget_id = $1
		ORDER BY t.created_at
	`

	rows, err := q.Query(ctx, query, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		b          domain.Budget
		amount     pgtype.Numeric
		currency   string
		category   string
		archivedAt pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)

	if err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Name,
		&amount,
		&currency,
		&category,
		&b.Color,
		&b.Icon,
		&b.Month,
		&b.Year,
		&archivedAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	b.Amount = domain.Money{Amount: numericToDecimal(amount), Currency: domain.Currency(currency)}
	b.Category = domain.BudgetCategory(category)
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	if archivedAt.Valid {
		t := archivedAt.Time
		b.ArchivedAt = &t
	}

	return &b, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t         domain.Transaction
		amount    pgtype.Numeric
		currency  string
		txnType   string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&amount,
		&currency,
		&txnType,
		&t.Recurring,
		&t.Name,
		&t.Description,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	t.Amount = domain.Money{Amount: numericToDecimal(amount), Currency: domain.Currency(currency)}
	t.Type = domain.TransactionType(txnType)
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func archivedAtToPg(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}

	return pgtype.Timestamptz{Time: *t, Valid: true}
}
