package domain

// ErrorCode is a stable machine-readable code exposed to API clients.
type ErrorCode string

const (
	CodeBudgetNotFound      ErrorCode = "BUDGET_NOT_FOUND"
	CodeInvalidAmount       ErrorCode = "BUDGET_INVALID_AMOUNT"
	CodeSpendingNotFound    ErrorCode = "SPENDING_NOT_FOUND"
	CodeBudgetAlreadyExists ErrorCode = "BUDGET_ALREADY_EXISTS"
	CodeBudgetNotOwned      ErrorCode = "BUDGET_NOT_BELONG_TO_USER"
	CodeTransactionNotFound ErrorCode = "TRANSACTION_NOT_FOUND"
	CodeCurrencyMismatch    ErrorCode = "CURRENCY_MISMATCH"
	CodeInvalidCategory     ErrorCode = "BUDGET_INVALID_CATEGORY"
)

// Error is a domain error carrying a stable code and a human message.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	// ErrBudgetNotFound covers missing, archived and foreign-user budgets
	// on read paths, so existence never leaks across users.
	ErrBudgetNotFound = &Error{Code: CodeBudgetNotFound, Message: "budget not found"}

	// ErrInvalidAmount is raised for non-positive budget or transaction amounts.
	ErrInvalidAmount = &Error{Code: CodeInvalidAmount, Message: "amount must be positive"}

	// ErrSpendingNotFound is raised when a spending transaction is not part
	// of the aggregate being mutated.
	ErrSpendingNotFound = &Error{Code: CodeSpendingNotFound, Message: "spending transaction not found"}

	// ErrBudgetAlreadyExists is raised when a budget with the same name
	// already exists for the user, month and year.
	ErrBudgetAlreadyExists = &Error{Code: CodeBudgetAlreadyExists, Message: "budget already exists for this month"}

	// ErrBudgetNotOwned is raised when a mutating operation targets a
	// budget owned by a different user.
	ErrBudgetNotOwned = &Error{Code: CodeBudgetNotOwned, Message: "budget does not belong to user"}

	// ErrTransactionNotFound is raised when a standalone transaction lookup
	// returns nothing for the calling user.
	ErrTransactionNotFound = &Error{Code: CodeTransactionNotFound, Message: "transaction not found"}

	// ErrCurrencyMismatch is raised when arithmetic would combine amounts
	// in different currencies.
	ErrCurrencyMismatch = &Error{Code: CodeCurrencyMismatch, Message: "cannot combine amounts in different currencies"}

	// ErrInvalidCategory is raised for unknown budget categories.
	ErrInvalidCategory = &Error{Code: CodeInvalidCategory, Message: "budget category must be fixed or flexible"}
)
