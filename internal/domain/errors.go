package domain

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrNegativeBalance     = errors.New("opening balance must not be negative")
	ErrInvalidAccountType  = errors.New("invalid account type")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyReversed     = errors.New("transaction already reversed")
	ErrNotReversible       = errors.New("only successful transactions can be reversed")
	ErrInvalidRequest      = errors.New("invalid request")

	// ErrRemoteCall marks a failed call to the account store after the retry
	// budget is spent. During a transfer it drives the failed status; during a
	// reversal it aborts the whole operation.
	ErrRemoteCall = errors.New("account store call failed")
)
