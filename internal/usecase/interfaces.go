package usecase

import (
	"context"
	"time"

	"github.com/iho/gobudget/internal/domain"
)

// BudgetRepository defines data access for budget aggregates. Save must
// read the aggregate's watch list to determine inserts (added), updates
// (updated) and deletes (removed) for the child transaction collection,
// plus persist scalar changes to the budget itself.
type BudgetRepository interface {
	Create(ctx context.Context, tx Transaction, aggregate *domain.BudgetAggregate) error
	GetByID(ctx context.Context, id string) (*domain.BudgetAggregate, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.BudgetAggregate, error)
	ListByMonth(ctx context.Context, userID string, month, year int) ([]*domain.BudgetAggregate, error)
	ExistsForMonth(ctx context.Context, userID, name string, month, year int) (bool, error)
	Save(ctx context.Context, tx Transaction, aggregate *domain.BudgetAggregate) error
}

// TransactionRepository defines data access for standalone transactions.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error)
	ListRecurringDue(ctx context.Context, asOf time.Time, limit int) ([]*domain.Transaction, error)
	Update(ctx context.Context, transaction *domain.Transaction) error
	Delete(ctx context.Context, id string) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time. Domain timestamps never come from
// time.Now directly, so tests can pin them.
type Clock interface {
	Now() time.Time
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
