package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidBudgetName = errors.New("invalid budget name")
	ErrInvalidCurrency   = errors.New("invalid currency code")
	ErrInvalidMonth      = errors.New("month must be between 1 and 12")
	ErrInvalidYear       = errors.New("invalid year")
	ErrInvalidColor      = errors.New("invalid color value")
	ErrAmountTooLarge    = errors.New("amount exceeds maximum allowed")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrPasswordTooWeak   = errors.New("password does not meet requirements")

	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidRecurrence      = errors.New("recurrence interval cannot be negative")
)

// Validation constants
const (
	MaxBudgetNameLength = 255
	MinBudgetNameLength = 1
	MaxAmount           = "1000000000" // 1 billion
	MinYear             = 1970
	MaxYear             = 2200
	MinPasswordLength   = 8
	MaxPasswordLength   = 128
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[Currency]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "RUB": true, "TRY": true, "HKD": true,
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	colorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// ValidateBudgetName validates a budget name.
func ValidateBudgetName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinBudgetNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidBudgetName)
	}

	if len(name) > MaxBudgetNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidBudgetName, MaxBudgetNameLength)
	}

	return nil
}

// ValidateCurrency validates a currency code.
func ValidateCurrency(currency Currency) error {
	if !validCurrencies[Currency(strings.ToUpper(strings.TrimSpace(string(currency))))] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateMonth validates a calendar month.
func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}

	return nil
}

// ValidateYear validates a calendar year.
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}

	return nil
}

// ValidateColor validates a hex color value. Empty is allowed.
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}

	if !colorRegex.MatchString(color) {
		return fmt.Errorf("%w: %s", ErrInvalidColor, color)
	}

	return nil
}

// ValidateAmount validates a budget or transaction amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasUpper || !hasLower || !hasNumber {
		return fmt.Errorf("%w: must contain uppercase, lowercase, and numbers", ErrPasswordTooWeak)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
