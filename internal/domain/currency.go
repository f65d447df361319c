package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

// DefaultCurrency is used when no currency is given.
const DefaultCurrency Currency = "USD"

// Money is an immutable monetary amount in a single currency.
// It is a pure arithmetic carrier: construction performs no business
// validation, positivity is checked where the amount gains business
// meaning (budget creation, transaction validation).
type Money struct {
	Amount   decimal.Decimal
	Currency Currency
}

// NewMoney creates a Money value, defaulting the currency when empty.
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	if currency == "" {
		currency = DefaultCurrency
	}

	return Money{Amount: amount, Currency: currency}
}

// Zero returns a zero amount in the given currency.
func Zero(currency Currency) Money {
	return NewMoney(decimal.Zero, currency)
}

// Add returns a new Money with the amounts combined.
// Mixing currencies fails with ErrCurrencyMismatch.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}

	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns a new Money with the other amount subtracted.
// Mixing currencies fails with ErrCurrencyMismatch.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}

	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Equal compares amount and currency.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// String renders the amount with its currency code.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency)
}
