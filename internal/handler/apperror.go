package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrAccountNotFound     = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrInvalidAmount       = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrInsufficientFunds   = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrNegativeBalance     = &AppError{http.StatusBadRequest, "NEGATIVE_BALANCE", "Opening balance must not be negative"}
	ErrInvalidAccountType  = &AppError{http.StatusBadRequest, "INVALID_ACCOUNT_TYPE", "Account type must be savings or current"}
	ErrTransactionNotFound = &AppError{http.StatusNotFound, "TRANSACTION_NOT_FOUND", "Transaction not found"}
	ErrAlreadyReversed     = &AppError{http.StatusConflict, "ALREADY_REVERSED", "Transaction already reversed"}
	ErrNotReversible       = &AppError{http.StatusUnprocessableEntity, "NOT_REVERSIBLE", "Only successful transactions can be reversed"}
	ErrAccountStoreDown    = &AppError{http.StatusBadGateway, "ACCOUNT_STORE_UNAVAILABLE", "Account store is unavailable"}

	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
)
