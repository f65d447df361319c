package domain

import (
	"time"
)

// TransactionType classifies a money movement.
type TransactionType string

const (
	TransactionIncome         TransactionType = "income"
	TransactionOutcome        TransactionType = "outcome"
	TransactionTransfer       TransactionType = "transfer"
	TransactionBudgetSpending TransactionType = "budget_spending"
)

// IsValid checks that the type is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionIncome, TransactionOutcome, TransactionTransfer, TransactionBudgetSpending:
		return true
	}

	return false
}

// Transaction represents a single money movement.
type Transaction struct {
	ID          string
	UserID      string
	Amount      Money
	Type        TransactionType
	Recurring   int // repeat interval in days, 0 = one-off
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TransactionProps holds the data needed to create a transaction.
type TransactionProps struct {
	UserID      string
	Amount      Money
	Type        TransactionType
	Recurring   int
	Name        string
	Description string
}

// NewTransaction creates a transaction with the given identity.
// Construction does not validate the amount; callers that need the
// positivity guarantee must call Validate explicitly.
func NewTransaction(id string, props TransactionProps, now time.Time) *Transaction {
	return &Transaction{
		ID:          id,
		UserID:      props.UserID,
		Amount:      props.Amount,
		Type:        props.Type,
		Recurring:   props.Recurring,
		Name:        props.Name,
		Description: props.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks that the amount is strictly positive.
func (t *Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	return nil
}

// TransactionPatch holds the mutable transaction fields. Identity, owner
// and timestamps are not representable here.
type TransactionPatch struct {
	Amount      *Money
	Name        *string
	Description *string
	Recurring   *int
}

// Update merges the provided fields and bumps UpdatedAt.
func (t *Transaction) Update(patch TransactionPatch, now time.Time) {
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}

	if patch.Name != nil {
		t.Name = *patch.Name
	}

	if patch.Description != nil {
		t.Description = *patch.Description
	}

	if patch.Recurring != nil {
		t.Recurring = *patch.Recurring
	}

	t.UpdatedAt = now
}
