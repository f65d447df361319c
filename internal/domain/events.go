package domain

import "time"

// Event types
const (
	EventTypeBudgetCreated   = "budget.created"
	EventTypeBudgetUpdated   = "budget.updated"
	EventTypeBudgetArchived  = "budget.archived"
	EventTypeSpendingAdded   = "budget.spending_recorded"
	EventTypeSpendingRemoved = "budget.spending_removed"
)

// Aggregate types
const (
	AggregateTypeBudget      = "budget"
	AggregateTypeTransaction = "transaction"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// BudgetCreatedEvent payload
type BudgetCreatedEvent struct {
	BudgetID string `json:"budget_id"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
}

// BudgetArchivedEvent payload
type BudgetArchivedEvent struct {
	BudgetID   string `json:"budget_id"`
	UserID     string `json:"user_id"`
	ArchivedAt string `json:"archived_at"`
}

// SpendingRecordedEvent payload
type SpendingRecordedEvent struct {
	BudgetID      string `json:"budget_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Remaining     string `json:"remaining"`
}

// SpendingRemovedEvent payload
type SpendingRemovedEvent struct {
	BudgetID      string `json:"budget_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
}
