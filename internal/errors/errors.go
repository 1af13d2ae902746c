// Package errors provides custom error types for the finpilot API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
	ErrInvalidAPIKey      = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrJobsNotConfigured  = &AppError{Code: "JOBS_NOT_CONFIGURED", Message: "Job endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Card errors. Configuration errors are rejected when a record is created or
// edited, never inside derived calculations.
var (
	ErrCardNotFound       = &AppError{Code: "CARD_NOT_FOUND", Message: "Card not found", StatusCode: http.StatusNotFound}
	ErrInvalidCreditLimit = &AppError{Code: "INVALID_CREDIT_LIMIT", Message: "Credit limit must be greater than zero", StatusCode: http.StatusBadRequest}
	ErrInvalidBillingDay  = &AppError{Code: "INVALID_BILLING_DAY", Message: "Closing and due days must be between 1 and 31", StatusCode: http.StatusBadRequest}
	ErrMisconfiguredCard  = &AppError{Code: "MISCONFIGURED_CARD", Message: "Card has an invalid credit limit", StatusCode: http.StatusUnprocessableEntity}
)

// Purchase and subscription errors.
var (
	ErrPurchaseNotFound        = &AppError{Code: "PURCHASE_NOT_FOUND", Message: "Purchase not found", StatusCode: http.StatusNotFound}
	ErrInvalidInstallmentCount = &AppError{Code: "INVALID_INSTALLMENT_COUNT", Message: "Installment count must be at least 1", StatusCode: http.StatusBadRequest}
	ErrInvalidAmount           = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be greater than zero", StatusCode: http.StatusBadRequest}
	ErrSubscriptionNotFound    = &AppError{Code: "SUBSCRIPTION_NOT_FOUND", Message: "Subscription not found", StatusCode: http.StatusNotFound}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionKind = &AppError{Code: "INVALID_TRANSACTION_KIND", Message: "Transaction kind must be income or expense", StatusCode: http.StatusBadRequest}
)

// Goal and planned purchase errors.
var (
	ErrGoalNotFound            = &AppError{Code: "GOAL_NOT_FOUND", Message: "Goal not found", StatusCode: http.StatusNotFound}
	ErrPlannedPurchaseNotFound = &AppError{Code: "PLANNED_PURCHASE_NOT_FOUND", Message: "Planned purchase not found", StatusCode: http.StatusNotFound}
)

// Payment errors.
var (
	ErrInvalidPaymentKey = &AppError{Code: "INVALID_PAYMENT_KEY", Message: "Payment kind, reference, month and year are required", StatusCode: http.StatusBadRequest}
)
